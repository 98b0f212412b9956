package driver

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/redbco/docsynth/internal/emitter/cdc"
	"github.com/redbco/docsynth/internal/errs"
)

// MongoConfig is the connection shape the mongo Driver needs. Grounded on
// services/anchor/internal/database/mongodb's connection-string building,
// trimmed to this engine's actual inputs (no tenant/encryption layer: this
// is a standalone tool, not a multi-tenant mesh service).
type MongoConfig struct {
	URI            string
	DatabaseName   string
	CollectionName string
	ConnectTimeout time.Duration
}

// DefaultConnectTimeout matches the teacher's own connection-lifecycle
// default (services/anchor/internal/database/mongodb).
const DefaultConnectTimeout = 10 * time.Second

// Mongo is the Driver implementation over go.mongodb.org/mongo-driver.
type Mongo struct {
	cfg    MongoConfig
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo returns an unconnected Mongo driver; call Connect before use.
func NewMongo(cfg MongoConfig) *Mongo {
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	return &Mongo{cfg: cfg}
}

func (m *Mongo) Connect(ctx context.Context) error {
	clientOpts := options.Client().ApplyURI(m.cfg.URI)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return errs.Wrap(errs.SourceConnection, "connect", "failed to connect to mongodb", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return errs.Wrap(errs.SourceConnection, "connect", "failed to ping mongodb", err)
	}

	m.client = client
	m.coll = client.Database(m.cfg.DatabaseName).Collection(m.cfg.CollectionName)
	return nil
}

// Close always releases the client connection, per §4.G's
// "guaranteed-release block" requirement.
func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}

// BulkInsert submits one InsertMany batch and reconciles the driver's
// partial-failure response into {inserted, failed}, never retrying
// duplicates implicitly (§4.G).
func (m *Mongo) BulkInsert(ctx context.Context, docs []map[string]interface{}, ordered bool) (BulkInsertResult, error) {
	if len(docs) == 0 {
		return BulkInsertResult{}, nil
	}

	documents := make([]interface{}, len(docs))
	for i, d := range docs {
		documents[i] = d
	}

	opts := options.InsertMany().SetOrdered(ordered)
	res, err := m.coll.InsertMany(ctx, documents, opts)

	inserted := int64(0)
	if res != nil {
		inserted = int64(len(res.InsertedIDs))
	}

	if err == nil {
		return BulkInsertResult{Inserted: inserted, Failed: 0}, nil
	}

	if _, ok := err.(mongo.BulkWriteException); ok {
		// Under ordered=true the driver stops at the first error and
		// WriteErrors only names that one failure; the remainder of the
		// batch was never attempted. Per this engine's accounting
		// contract, that remainder is charged to failed rather than
		// silently omitted, so total = inserted + failed always holds for
		// callers regardless of ordering mode.
		failed := int64(len(docs)) - inserted
		return BulkInsertResult{Inserted: inserted, Failed: failed}, nil
	}

	// Not a partial-failure shape the driver can reconcile from (e.g. a
	// connection error) — propagate, per §4.G "on input error: propagate".
	return BulkInsertResult{Inserted: inserted, Failed: int64(len(docs)) - inserted}, errs.Wrap(errs.General, "bulkInsert", "bulk insert failed", err)
}

// BulkWrite maps each cdc.Operation to an insert-one/update-one/delete-one
// WriteModel and submits one bulk write, separating
// inserted/updated/deleted/failed counts per §4.G.
func (m *Mongo) BulkWrite(ctx context.Context, ops []cdc.Operation, ordered bool) (BulkWriteResult, error) {
	if len(ops) == 0 {
		return BulkWriteResult{}, nil
	}

	models := make([]mongo.WriteModel, 0, len(ops))
	for _, op := range ops {
		switch op.Type {
		case cdc.Insert:
			models = append(models, mongo.NewInsertOneModel().SetDocument(op.Doc))
		case cdc.Update:
			models = append(models, mongo.NewUpdateOneModel().
				SetFilter(bson.M{"_id": op.ID}).
				SetUpdate(bson.M{"$set": op.Doc}))
		case cdc.Delete:
			models = append(models, mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": op.ID}))
		}
	}

	opts := options.BulkWrite().SetOrdered(ordered)
	res, err := m.coll.BulkWrite(ctx, models, opts)

	result := BulkWriteResult{}
	if res != nil {
		result.Inserted = res.InsertedCount
		result.Updated = res.ModifiedCount
		result.Deleted = res.DeletedCount
	}

	if err == nil {
		return result, nil
	}
	if bwe, ok := err.(mongo.BulkWriteException); ok {
		result.Failed = int64(len(bwe.WriteErrors))
		return result, nil
	}
	result.Failed = int64(len(ops)) - result.Inserted - result.Updated - result.Deleted
	return result, errs.Wrap(errs.General, "bulkWrite", "bulk write failed", err)
}

func (m *Mongo) CountDocuments(ctx context.Context) (int64, error) {
	n, err := m.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, errs.Wrap(errs.General, "count", "count documents failed", err)
	}
	return n, nil
}

func (m *Mongo) FindStream(ctx context.Context, batchSize int) (DocumentCursor, error) {
	opts := options.Find()
	if batchSize > 0 {
		opts.SetBatchSize(int32(batchSize))
	}
	cur, err := m.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errs.Wrap(errs.General, "findStream", "find failed", err)
	}
	return &mongoCursor{cur: cur}, nil
}

type mongoCursor struct {
	cur *mongo.Cursor
}

func (c *mongoCursor) Next(ctx context.Context) bool { return c.cur.Next(ctx) }
func (c *mongoCursor) Err() error                     { return c.cur.Err() }
func (c *mongoCursor) Close(ctx context.Context) error { return c.cur.Close(ctx) }

func (c *mongoCursor) Decode() (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := c.cur.Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.General, "decode", "failed to decode document", err)
	}
	return doc, nil
}
