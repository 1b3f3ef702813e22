// Package fingerprint computes content fingerprints for files.
package fingerprint

import (
	"bufio"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// Algorithm identifies the digest used for a run.
type Algorithm string

const (
	// MD5 produces 32 hex character fingerprints (fast, non-collision-resistant).
	MD5 Algorithm = "md5"
	// SHA256 produces 64 hex character fingerprints.
	SHA256 Algorithm = "sha256"
)

// readBufferSize bounds memory per hash regardless of file size.
const readBufferSize = 128 * 1024

// ParseAlgorithm converts a configuration string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case MD5:
		return MD5, nil
	case SHA256:
		return SHA256, nil
	default:
		return "", fmt.Errorf("unknown fingerprint algorithm %q (want md5 or sha256)", s)
	}
}

// Fingerprinter streams file contents through a single digest algorithm,
// chosen once per run. Safe to reuse across files; it holds no per-file state.
type Fingerprinter struct {
	algorithm Algorithm
}

// New creates a Fingerprinter for the given algorithm.
func New(algorithm Algorithm) *Fingerprinter {
	return &Fingerprinter{algorithm: algorithm}
}

// Algorithm returns the digest this Fingerprinter applies.
func (f *Fingerprinter) Algorithm() Algorithm {
	return f.algorithm
}

// HexLength returns the length of the hex digests this Fingerprinter produces.
func (f *Fingerprinter) HexLength() int {
	if f.algorithm == SHA256 {
		return sha256.Size * 2
	}
	return md5.Size * 2
}

// Hash reads the file at path sequentially and returns the lowercase
// hex-encoded digest of its full content. Errors (vanished file, access
// denied, read failure) are returned to the caller; there are no retries.
func (f *Fingerprinter) Hash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for hashing: %w", err)
	}
	defer file.Close()

	h := f.newHash()
	if _, err := io.Copy(h, bufio.NewReaderSize(file, readBufferSize)); err != nil {
		return "", fmt.Errorf("read for hashing: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashReader digests an arbitrary stream. Used by tests and by callers that
// already hold an open handle.
func (f *Fingerprinter) HashReader(r io.Reader) (string, error) {
	h := f.newHash()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("read for hashing: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (f *Fingerprinter) newHash() hash.Hash {
	if f.algorithm == SHA256 {
		return sha256.New()
	}
	return md5.New()
}
