package ingest

import (
	"context"
	"io"
	"log"

	"rto-ops-api/internal/model"
)

// DefaultBatchSize is the nominal number of rows flushed per bulk insert.
const DefaultBatchSize = 200

// EventType classifies a pipeline progress event.
type EventType string

const (
	EventProgress EventType = "progress"
	EventDone     EventType = "done"
	EventError    EventType = "error"
)

// Event is one incremental progress report. Exactly one terminal event
// (done or error) is emitted per run.
type Event struct {
	Type       EventType `json:"-"`
	Headers    []string  `json:"headers,omitempty"`
	Processed  int64     `json:"processed"`
	Inserted   int64     `json:"inserted"`
	Duplicates int64     `json:"duplicates"`
	Skipped    int64     `json:"skipped,omitempty"`
	Message    string    `json:"message,omitempty"`
}

// BatchWriter persists one batch of normalized records with at-most-once
// semantics per natural key. It returns the count of rows actually inserted;
// conflicts on the key column are silently skipped, never an error.
type BatchWriter interface {
	InsertReturnBatch(ctx context.Context, table, keyColumn string, records []model.ReturnRecord) (int64, error)
}

// Pipeline streams an uploaded return report into a marketplace staging
// table: pull a row, normalize it, batch it, flush synchronously between
// pulls. Memory stays bounded regardless of file size because the flush
// happens before the next pull.
type Pipeline struct {
	mp        *Marketplace
	writer    BatchWriter
	batchSize int
}

// NewPipeline builds a pipeline for one marketplace. batchSize <= 0 selects
// DefaultBatchSize.
func NewPipeline(mp *Marketplace, writer BatchWriter, batchSize int) *Pipeline {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Pipeline{mp: mp, writer: writer, batchSize: batchSize}
}

// Run consumes the row source and reports progress on the returned channel.
// The channel is closed exactly once, after the terminal event. Cancelling
// ctx (client disconnect) stops processing; batches already flushed stay
// committed, which is safe because inserts are idempotent on the natural key.
func (p *Pipeline) Run(ctx context.Context, src RowSource) <-chan Event {
	events := make(chan Event, 8)

	go func() {
		defer close(events)
		defer src.Close()

		emit := func(ev Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		// Headers were captured when the source was built; report them once.
		if !emit(Event{Type: EventProgress, Headers: src.Headers()}) {
			return
		}

		var processed, inserted, skipped int64
		batch := make([]model.ReturnRecord, 0, p.batchSize)

		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			n, err := p.writer.InsertReturnBatch(ctx, p.mp.Table, p.mp.NaturalKey, batch)
			if err != nil {
				return err
			}
			inserted += n
			batch = batch[:0]
			return nil
		}

		for {
			select {
			case <-ctx.Done():
				log.Printf("[Pipeline] %s upload cancelled after %d rows", p.mp.Name, processed)
				return
			default:
			}

			row, err := src.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				emit(Event{Type: EventError, Processed: processed, Inserted: inserted,
					Message: "failed to read row: " + err.Error()})
				return
			}

			processed++
			rec := p.mp.Normalize(row)
			if rec.NaturalKey() == "" {
				// No dedup key means no idempotence; the row is counted but
				// never staged.
				skipped++
				continue
			}
			batch = append(batch, rec)

			if len(batch) == p.batchSize {
				if err := flush(); err != nil {
					emit(Event{Type: EventError, Processed: processed, Inserted: inserted,
						Message: "failed to insert batch: " + err.Error()})
					return
				}
				emit(Event{Type: EventProgress, Processed: processed, Inserted: inserted,
					Duplicates: processed - skipped - inserted, Skipped: skipped})
			}
		}

		if err := flush(); err != nil {
			emit(Event{Type: EventError, Processed: processed, Inserted: inserted,
				Message: "failed to insert batch: " + err.Error()})
			return
		}

		emit(Event{Type: EventDone, Processed: processed, Inserted: inserted,
			Duplicates: processed - skipped - inserted, Skipped: skipped})
	}()

	return events
}
