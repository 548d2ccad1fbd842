package spies

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// LogHandlerSpy is a slog.Handler that keeps every record.
type LogHandlerSpy struct {
	mu      sync.Mutex
	records []slog.Record
}

func NewLogHandlerSpy() *LogHandlerSpy {
	return &LogHandlerSpy{}
}

func (s *LogHandlerSpy) Handle(_ context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record.Clone())

	return nil
}

func (s *LogHandlerSpy) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (s *LogHandlerSpy) WithAttrs(_ []slog.Attr) slog.Handler {
	return s
}

func (s *LogHandlerSpy) WithGroup(_ string) slog.Handler {
	return s
}

// Records returns a copy of the captured records.
func (s *LogHandlerSpy) Records() []slog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]slog.Record(nil), s.records...)
}

// HasRecord reports whether a record at level contains msgPart in its message.
func (s *LogHandlerSpy) HasRecord(level slog.Level, msgPart string) bool {
	for _, record := range s.Records() {
		if record.Level == level && strings.Contains(record.Message, msgPart) {
			return true
		}
	}

	return false
}

// HasAttr reports whether any record with msgPart in its message carries key=value.
func (s *LogHandlerSpy) HasAttr(msgPart string, key string, value string) bool {
	for _, record := range s.Records() {
		if !strings.Contains(record.Message, msgPart) {
			continue
		}

		found := false
		record.Attrs(func(attr slog.Attr) bool {
			if attr.Key == key && attr.Value.String() == value {
				found = true
				return false
			}

			return true
		})

		if found {
			return true
		}
	}

	return false
}
