package sink

import (
	"errors"

	"github.com/dbsmedya/dircrawl/internal/crawler"
)

// Multi fans every record out to each wrapped sink. Emission continues to
// the remaining sinks when one fails; the errors are joined.
type Multi struct {
	sinks []crawler.RecordSink
}

// NewMulti combines sinks into one. Nil entries are dropped.
func NewMulti(sinks ...crawler.RecordSink) *Multi {
	m := &Multi{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// EmitDirectory forwards the record to every sink.
func (m *Multi) EmitDirectory(node crawler.DirectoryNode) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.EmitDirectory(node); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EmitFile forwards the record to every sink.
func (m *Multi) EmitFile(node crawler.FileNode) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.EmitFile(node); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EmitError forwards the error record to every sink.
func (m *Multi) EmitError(kind crawler.ErrorKind, context, message string) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.EmitError(kind, context, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EmitSummary forwards the summary to every sink.
func (m *Multi) EmitSummary(stats crawler.Statistics) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.EmitSummary(stats); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
