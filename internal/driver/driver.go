// Package driver defines the sink-side interface the emitter writes
// through, and a MongoDB implementation over go.mongodb.org/mongo-driver.
// Grounded on services/anchor/internal/database/mongodb's connection
// lifecycle (Connect/Ping/Disconnect) and bulk-operation shaping
// (InsertMany, BulkWrite with per-row WriteModels), and on
// pkg/anchor/adapter/interface.go's Connection/DataOperator contract
// shape — narrowed here to the document-synthesis engine's actual
// surface (bulk insert, bulk write of CDCOperations, a count, and a
// cursor stream) rather than the teacher's full multi-database
// SchemaOperator/ReplicationOperator/MetadataOperator surface, since
// this engine only ever writes to one MongoDB-shaped sink.
package driver

import (
	"context"

	"github.com/redbco/docsynth/internal/emitter/cdc"
)

// BulkInsertResult is the outcome of one bulkInsert batch submission.
type BulkInsertResult struct {
	Inserted int64
	Failed   int64
}

// BulkWriteResult is the outcome of one bulkWrite batch submission,
// separating insert/update/delete counts per §4.G.
type BulkWriteResult struct {
	Inserted int64
	Updated  int64
	Deleted  int64
	Failed   int64
}

// Driver is the sink contract: connect, submit batches, stream documents
// back for validation, count, and close. A concrete Driver must not retry
// duplicates implicitly on partial failure (§4.G).
type Driver interface {
	Connect(ctx context.Context) error
	BulkInsert(ctx context.Context, docs []map[string]interface{}, ordered bool) (BulkInsertResult, error)
	BulkWrite(ctx context.Context, ops []cdc.Operation, ordered bool) (BulkWriteResult, error)
	FindStream(ctx context.Context, batchSize int) (DocumentCursor, error)
	CountDocuments(ctx context.Context) (int64, error)
	Close(ctx context.Context) error
}

// DocumentCursor is a pull-iterator over documents already in the sink,
// used by the streaming validator (§4.H).
type DocumentCursor interface {
	Next(ctx context.Context) bool
	Decode() (map[string]interface{}, error)
	Err() error
	Close(ctx context.Context) error
}
