package emitter

import (
	"context"

	"github.com/redbco/docsynth/internal/driver"
	"github.com/redbco/docsynth/internal/errs"
)

// DefaultBatchSize matches §4.G's default batchSize.
const DefaultBatchSize = 1000

// BulkInsertConfig tunes one bulkInsert run.
type BulkInsertConfig struct {
	BatchSize int
	Ordered   bool
}

// DefaultBulkInsertConfig returns §4.G's defaults.
func DefaultBulkInsertConfig() BulkInsertConfig {
	return BulkInsertConfig{BatchSize: DefaultBatchSize}
}

// BulkInsert consumes docs from in, accumulating into batches of
// cfg.BatchSize and submitting each full batch through d. It is a plain
// pull loop: at most one batch is ever in flight, so the producer is
// naturally backpressured while a submission is outstanding (§4.G).
//
// On ctx cancellation or a read/write error that isn't a reconcilable
// partial-failure response, BulkInsert returns immediately and always
// closes d first (the "guaranteed-release block").
func BulkInsert(ctx context.Context, d driver.Driver, in <-chan map[string]interface{}, cfg BulkInsertConfig) (InsertionMetrics, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	defer d.Close(context.Background())

	var metrics InsertionMetrics
	batch := make([]map[string]interface{}, 0, cfg.BatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		res, err := d.BulkInsert(ctx, batch, cfg.Ordered)
		metrics.Total += int64(len(batch))
		metrics.Inserted += res.Inserted
		metrics.Failed += res.Failed
		batch = batch[:0]
		if err != nil {
			return errs.Wrap(errs.General, "bulkInsert", "batch submission failed", err)
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			_ = flush()
			return metrics, ctx.Err()
		case doc, ok := <-in:
			if !ok {
				err := flush()
				return metrics, err
			}
			batch = append(batch, doc)
			if len(batch) >= cfg.BatchSize {
				if err := flush(); err != nil {
					return metrics, err
				}
			}
		}
	}
}
