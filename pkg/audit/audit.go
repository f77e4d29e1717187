// Package audit publishes evaluation records to an external sink. The engine
// itself never logs; the surrounding surface decides whether and where the
// {input, config version, output} tuple goes.
package audit

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

// Sink receives one record per evaluation.
type Sink interface {
	Publish(record *models.EvaluationRecord) error
	Close()
}

// NATSSink publishes evaluation records as JSON messages on a fixed subject.
type NATSSink struct {
	nc      *nats.Conn
	subject string
}

// NewNATSSink connects to the NATS server and returns a ready sink.
func NewNATSSink(url, subject string) (*NATSSink, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSSink{nc: nc, subject: subject}, nil
}

// Publish sends one evaluation record. Publishing is fire-and-forget; a
// failed publish must never fail the evaluation that produced the record.
func (s *NATSSink) Publish(record *models.EvaluationRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	if err := s.nc.Publish(s.subject, payload); err != nil {
		return fmt.Errorf("publish audit record: %w", err)
	}
	return nil
}

// Close flushes and closes the connection.
func (s *NATSSink) Close() {
	if s.nc != nil {
		s.nc.Flush()
		s.nc.Close()
	}
}

// NopSink discards every record. Used when auditing is not configured.
type NopSink struct{}

// Publish discards the record.
func (NopSink) Publish(*models.EvaluationRecord) error { return nil }

// Close does nothing.
func (NopSink) Close() {}
