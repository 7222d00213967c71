package docstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	// ErrStoreUnavailable is returned by every operation when no store is configured.
	ErrStoreUnavailable = errors.New("database not available, check DATABASE_URL and DATABASE_NAME environment variables")
	// ErrOperationFailed wraps errors reported by the underlying store.
	ErrOperationFailed = errors.New("database operation failed")
)

// Document is a single schema-flexible record. The store identifier is kept
// under IDField as a string.
type Document map[string]interface{}

// Filter is an exact-match query; an empty filter matches every document.
type Filter map[string]interface{}

const (
	IDField        = "_id"
	CreatedAtField = "created_at"
	UpdatedAtField = "updated_at"
)

// backend is implemented by each concrete document database.
type backend interface {
	InsertOne(ctx context.Context, collection string, doc Document) (string, error)
	InsertMany(ctx context.Context, collection string, docs []Document) ([]string, error)
	Find(ctx context.Context, collection string, filter Filter, limit int64) ([]Document, error)
	ListCollectionNames(ctx context.Context) ([]string, error)
	EnsureCollection(ctx context.Context, collection string) error
	DatabaseName() string
	Close(ctx context.Context) error
}

// toDocument converts a struct (bson tags) or a map into a fresh Document.
// Store-owned fields supplied by the caller are dropped.
func toDocument(record interface{}) (Document, error) {
	doc := Document{}
	switch r := record.(type) {
	case Document:
		for k, v := range r {
			doc[k] = v
		}
	case map[string]interface{}:
		for k, v := range r {
			doc[k] = v
		}
	default:
		raw, err := bson.Marshal(record)
		if err != nil {
			return nil, errors.Wrap(err, "encode record")
		}
		var m bson.M
		if err := bson.Unmarshal(raw, &m); err != nil {
			return nil, errors.Wrap(err, "decode record")
		}
		for k, v := range m {
			doc[k] = v
		}
	}
	delete(doc, IDField)
	delete(doc, CreatedAtField)
	delete(doc, UpdatedAtField)
	return doc, nil
}

func stamp(doc Document, now time.Time) {
	doc[CreatedAtField] = now
	doc[UpdatedAtField] = now
}
