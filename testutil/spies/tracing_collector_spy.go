package spies

import (
	"context"
	"maps"
	"sync"

	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// SpanSpy is the eventstore.SpanContext handed out by TracingCollectorSpy.
type SpanSpy struct {
	mu         sync.Mutex
	status     string
	attributes map[string]string
}

func (c *SpanSpy) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

func (c *SpanSpy) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attributes == nil {
		c.attributes = make(map[string]string)
	}

	c.attributes[key] = value
}

// SpanRecord is one started span, completed once FinishSpan was called for it.
type SpanRecord struct {
	Name            string
	StartAttributes map[string]string
	Status          string
	EndAttributes   map[string]string
	Finished        bool
	span            *SpanSpy
}

// TracingCollectorSpy captures StartSpan and FinishSpan calls.
type TracingCollectorSpy struct {
	mu    sync.Mutex
	spans []SpanRecord
}

func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (s *TracingCollectorSpy) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, eventstore.SpanContext) {

	s.mu.Lock()
	defer s.mu.Unlock()

	span := &SpanSpy{}
	s.spans = append(s.spans, SpanRecord{Name: name, StartAttributes: maps.Clone(attrs), span: span})

	return ctx, span
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpanSpy)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.spans {
		if s.spans[i].span == span {
			s.spans[i].Status = status
			s.spans[i].EndAttributes = maps.Clone(attrs)
			s.spans[i].Finished = true

			return
		}
	}
}

// Spans returns a copy of the captured span records.
func (s *TracingCollectorSpy) Spans() []SpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpanRecord(nil), s.spans...)
}

// FinishedWith reports whether a span called name was finished with status.
func (s *TracingCollectorSpy) FinishedWith(name string, status string) bool {
	for _, record := range s.Spans() {
		if record.Name == name && record.Finished && record.Status == status {
			return true
		}
	}

	return false
}
