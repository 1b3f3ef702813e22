// Package config provides configuration structures and loading for dircrawl.
package config

// Config represents the complete application configuration.
type Config struct {
	Hashing  HashingConfig  `yaml:"hashing" mapstructure:"hashing"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Exclude  []string       `yaml:"exclude" mapstructure:"exclude"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// HashingConfig selects the fingerprint digest for a run.
type HashingConfig struct {
	Algorithm string `yaml:"algorithm" mapstructure:"algorithm"` // md5 or sha256
}

// OutputConfig controls where and how text records are written.
type OutputConfig struct {
	Directory string `yaml:"directory" mapstructure:"directory"` // base dir; the run dir is created beneath it
	Format    string `yaml:"format" mapstructure:"format"`       // delimited or fixed
	Console   bool   `yaml:"console" mapstructure:"console"`     // echo progress lines to stdout
}

// DatabaseConfig represents the optional relational record destination.
// With the sqlite3 driver only Path is used; the remaining fields build
// a MySQL DSN.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Driver   string `yaml:"driver" mapstructure:"driver"` // sqlite3 or mysql
	Path     string `yaml:"path" mapstructure:"path"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Database string `yaml:"database" mapstructure:"database"`
	TLS      string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Hashing: HashingConfig{
			Algorithm: "md5",
		},
		Output: OutputConfig{
			Directory: ".",
			Format:    "delimited",
			Console:   true,
		},
		Database: DatabaseConfig{
			Enabled: false,
			Driver:  "sqlite3",
			Port:    3306,
			TLS:     "preferred",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// ApplyOverrides applies non-empty CLI flag values over the loaded configuration.
func (c *Config) ApplyOverrides(logLevel, logFormat, algorithm, outputDir, format string) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if algorithm != "" {
		c.Hashing.Algorithm = algorithm
	}
	if outputDir != "" {
		c.Output.Directory = outputDir
	}
	if format != "" {
		c.Output.Format = format
	}
}
