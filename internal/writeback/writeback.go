// Package writeback mirrors single-record edits to an external system. It
// is best-effort: failures are logged and never reach the caller.
package writeback

import (
	"context"
	"encoding/json"
	"time"

	"fjacquet/budget-dashboard/internal/logging"
	"fjacquet/budget-dashboard/internal/models"
)

// Payload is the message body sent for each change.
type Payload struct {
	CollectionName models.Kind   `json:"collectionName"`
	Record         models.Record `json:"record"`
	Deleted        bool          `json:"_deleted,omitempty"`
}

// Encode renders p as JSON.
func (p Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// Sink delivers one payload.
type Sink interface {
	Send(ctx context.Context, p Payload) error
	Close() error
}

// Dispatcher adapts a Sink to store.ChangeListener.
type Dispatcher struct {
	sink    Sink
	timeout time.Duration
	logger  logging.Logger
}

// NewDispatcher returns a dispatcher bounding every send by timeout.
func NewDispatcher(sink Sink, timeout time.Duration, logger logging.Logger) *Dispatcher {
	return &Dispatcher{sink: sink, timeout: timeout, logger: logger}
}

// RecordChanged sends the change and logs any failure.
func (d *Dispatcher) RecordChanged(ctx context.Context, kind models.Kind, rec models.Record, deleted bool) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	p := Payload{CollectionName: kind, Record: rec, Deleted: deleted}
	if err := d.sink.Send(ctx, p); err != nil {
		d.logger.WithError(err).Warn("Writeback failed",
			logging.F(logging.FieldKind, kind),
			logging.F(logging.FieldRecordID, rec.GetID()))
		return
	}
	d.logger.Debug("Writeback sent",
		logging.F(logging.FieldKind, kind),
		logging.F(logging.FieldRecordID, rec.GetID()))
}

// Close releases the sink.
func (d *Dispatcher) Close() error {
	return d.sink.Close()
}
