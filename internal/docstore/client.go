package docstore

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/odnamestaj/catalog/config"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Client is the document store handle shared by all requests.
// A Client without a backend is unavailable and fails every call fast.
type Client struct {
	backend backend
	dbType  string
	now     func() time.Time
}

// Connect opens the store described by cfg. When the url or name is missing
// it returns an unavailable client and no error.
func Connect(ctx context.Context, cfg config.DatabaseConfig, nodeID int64) (*Client, error) {
	c := &Client{dbType: cfg.Type, now: utcNow}
	if !cfg.Configured() {
		zap.L().Warn("document store not configured",
			zap.String("namespace", "docstore"),
			zap.Bool("url_set", cfg.URL != ""),
			zap.Bool("name_set", cfg.Name != ""))
		return c, nil
	}

	var (
		b   backend
		err error
	)
	switch cfg.Type {
	case config.DatabaseMongo:
		b, err = openMongo(ctx, cfg.URL, cfg.Name)
	case config.DatabaseBolt:
		var node *snowflake.Node
		if node, err = snowflake.NewNode(nodeID); err == nil {
			b, err = openBolt(cfg.URL, cfg.Name, node)
		}
	case config.DatabasePostgres:
		var node *snowflake.Node
		if node, err = snowflake.NewNode(nodeID); err == nil {
			b, err = openSQL(cfg.URL, cfg.Name, node)
		}
	default:
		err = errors.Errorf("unsupported database type %q", cfg.Type)
	}
	if err != nil {
		return c, errors.Wrapf(err, "connect %s store", cfg.Type)
	}

	c.backend = b
	zap.L().Info("document store connected",
		zap.String("namespace", "docstore"),
		zap.String("type", cfg.Type),
		zap.String("database", cfg.Name))
	return c, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// Available reports whether a backend is attached.
func (c *Client) Available() bool {
	return c != nil && c.backend != nil
}

// Type returns the configured backend type.
func (c *Client) Type() string {
	if c == nil {
		return ""
	}
	return c.dbType
}

// CreateDocument stamps created_at/updated_at and inserts record, returning the new id.
func (c *Client) CreateDocument(ctx context.Context, collection string, record interface{}) (string, error) {
	if !c.Available() {
		return "", ErrStoreUnavailable
	}
	doc, err := toDocument(record)
	if err != nil {
		return "", errors.Wrapf(ErrOperationFailed, "%s: %v", collection, err)
	}
	stamp(doc, c.now())

	id, err := c.backend.InsertOne(ctx, collection, doc)
	if err != nil {
		return "", errors.Wrapf(ErrOperationFailed, "insert into %s: %v", collection, err)
	}
	return id, nil
}

// CreateDocuments inserts records in bulk with one shared timestamp.
// Ids are returned in input order.
func (c *Client) CreateDocuments(ctx context.Context, collection string, records []interface{}) ([]string, error) {
	if !c.Available() {
		return nil, ErrStoreUnavailable
	}
	if len(records) == 0 {
		return []string{}, nil
	}

	now := c.now()
	docs := make([]Document, 0, len(records))
	for _, r := range records {
		doc, err := toDocument(r)
		if err != nil {
			return nil, errors.Wrapf(ErrOperationFailed, "%s: %v", collection, err)
		}
		stamp(doc, now)
		docs = append(docs, doc)
	}

	ids, err := c.backend.InsertMany(ctx, collection, docs)
	if err != nil {
		return nil, errors.Wrapf(ErrOperationFailed, "bulk insert into %s: %v", collection, err)
	}
	return ids, nil
}

// GetDocuments returns documents matching filter, capped at limit when limit > 0.
func (c *Client) GetDocuments(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	if !c.Available() {
		return nil, ErrStoreUnavailable
	}
	if filter == nil {
		filter = Filter{}
	}
	if limit < 0 {
		limit = 0
	}
	docs, err := c.backend.Find(ctx, collection, filter, int64(limit))
	if err != nil {
		return nil, errors.Wrapf(ErrOperationFailed, "query %s: %v", collection, err)
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

// ListCollectionNames returns the collections of the configured database.
func (c *Client) ListCollectionNames(ctx context.Context) ([]string, error) {
	if !c.Available() {
		return nil, ErrStoreUnavailable
	}
	names, err := c.backend.ListCollectionNames(ctx)
	if err != nil {
		return nil, errors.Wrapf(ErrOperationFailed, "list collections: %v", err)
	}
	return names, nil
}

// EnsureCollections creates the named collections where the backend keeps
// them as separate objects. Existing collections are left untouched.
func (c *Client) EnsureCollections(ctx context.Context, names []string) error {
	if !c.Available() {
		return ErrStoreUnavailable
	}
	for _, name := range names {
		if err := c.backend.EnsureCollection(ctx, name); err != nil {
			return errors.Wrapf(ErrOperationFailed, "create collection %s: %v", name, err)
		}
	}
	return nil
}

// DatabaseName returns the name of the connected database, or "".
func (c *Client) DatabaseName() string {
	if !c.Available() {
		return ""
	}
	return c.backend.DatabaseName()
}

// Close releases the backend connection.
func (c *Client) Close(ctx context.Context) error {
	if !c.Available() {
		return nil
	}
	return c.backend.Close(ctx)
}
