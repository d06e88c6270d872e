package testdoubles

import (
	"context"
	"maps"
	"sync"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
)

// SpySpanContext records the status and attributes set on a span.
type SpySpanContext struct {
	status     string
	attributes map[string]string
	mu         sync.Mutex
}

func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attributes == nil {
		c.attributes = make(map[string]string)
	}

	c.attributes[key] = value
}

// SpySpanRecord is one span started through the spy.
type SpySpanRecord struct {
	Name            string
	StartAttributes map[string]string
	Finished        bool
	Status          string
	EndAttributes   map[string]string
	span            *SpySpanContext
}

// TracingCollectorSpy captures calls of the TracingCollector interface.
type TracingCollectorSpy struct {
	spans []*SpySpanRecord
	mu    sync.Mutex
}

// NewTracingCollectorSpy creates an empty TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (s *TracingCollectorSpy) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, borrowing.SpanContext) {

	s.mu.Lock()
	defer s.mu.Unlock()

	span := &SpySpanContext{}
	s.spans = append(s.spans, &SpySpanRecord{Name: name, StartAttributes: maps.Clone(attrs), span: span})

	return ctx, span
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx borrowing.SpanContext, status string, attrs map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.spans {
		if record.span == spanCtx {
			record.Finished = true
			record.Status = status
			record.EndAttributes = maps.Clone(attrs)

			return
		}
	}
}

// Spans returns a snapshot of all captured spans.
func (s *TracingCollectorSpy) Spans() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	spans := make([]SpySpanRecord, 0, len(s.spans))
	for _, record := range s.spans {
		spans = append(spans, *record)
	}

	return spans
}

// FinishedSpan returns the first finished span with the given name.
func (s *TracingCollectorSpy) FinishedSpan(name string) (SpySpanRecord, bool) {
	for _, record := range s.Spans() {
		if record.Name == name && record.Finished {
			return record, true
		}
	}

	return SpySpanRecord{}, false
}
