package docstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/odnamestaj/catalog/config"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRecord struct {
	Name     string   `bson:"name"`
	Category string   `bson:"category"`
	Featured bool     `bson:"featured"`
	Images   []string `bson:"images"`
}

func newBoltClient(t *testing.T) *Client {
	t.Helper()
	cfg := config.DatabaseConfig{
		Type: config.DatabaseBolt,
		URL:  filepath.Join(t.TempDir(), "store", "catalog.db"),
		Name: "catalog",
	}
	c, err := Connect(context.Background(), cfg, 1)
	require.NoError(t, err)
	require.True(t, c.Available())
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c
}

func TestUnavailableClientFailsFast(t *testing.T) {
	c, err := Connect(context.Background(), config.DatabaseConfig{Type: config.DatabaseMongo, URL: "mongodb://localhost"}, 1)
	require.NoError(t, err)
	assert.False(t, c.Available())

	ctx := context.Background()
	_, err = c.CreateDocument(ctx, "furnitureproduct", Document{"name": "x"})
	assert.True(t, errors.Is(err, ErrStoreUnavailable))

	_, err = c.CreateDocuments(ctx, "furnitureproduct", []interface{}{Document{"name": "x"}})
	assert.True(t, errors.Is(err, ErrStoreUnavailable))

	_, err = c.GetDocuments(ctx, "furnitureproduct", nil, 10)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))

	_, err = c.ListCollectionNames(ctx)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.NoError(t, c.Close(ctx))
}

func TestConnectUnsupportedType(t *testing.T) {
	c, err := Connect(context.Background(), config.DatabaseConfig{Type: "redis", URL: "x", Name: "y"}, 1)
	assert.Error(t, err)
	require.NotNil(t, c)
	assert.False(t, c.Available())
}

func TestCreateDocumentStampsTimestamps(t *testing.T) {
	c := newBoltClient(t)
	ctx := context.Background()

	before := time.Now().UTC()
	id, err := c.CreateDocument(ctx, "furnitureproduct", sampleRecord{Name: "Sto", Category: "sto"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	docs, err := c.GetDocuments(ctx, "furnitureproduct", nil, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	doc := docs[0]
	assert.Equal(t, id, doc[IDField])
	assert.Equal(t, "Sto", doc["name"])
	assert.Equal(t, doc[CreatedAtField], doc[UpdatedAtField])

	created, err := time.Parse(time.RFC3339Nano, doc[CreatedAtField].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, before, created, 5*time.Second)
}

func TestCreateDocumentIgnoresClientOwnedFields(t *testing.T) {
	c := newBoltClient(t)
	ctx := context.Background()

	past := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	id, err := c.CreateDocument(ctx, "furnitureproduct", map[string]interface{}{
		"_id":        "client-id",
		"name":       "Komoda",
		"created_at": past,
		"updated_at": past,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "client-id", id)

	docs, err := c.GetDocuments(ctx, "furnitureproduct", Filter{"name": "Komoda"}, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.NotEqual(t, past.Format(time.RFC3339Nano), docs[0][CreatedAtField])
}

func TestCreateDocumentsKeepsInputOrder(t *testing.T) {
	c := newBoltClient(t)
	ctx := context.Background()

	records := []interface{}{
		sampleRecord{Name: "a", Category: "ormar"},
		sampleRecord{Name: "b", Category: "kuhinja"},
		sampleRecord{Name: "c", Category: "ormar"},
	}
	ids, err := c.CreateDocuments(ctx, "furnitureproduct", records)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	docs, err := c.GetDocuments(ctx, "furnitureproduct", nil, 0)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	byID := map[interface{}]Document{}
	stampValue := docs[0][CreatedAtField]
	for _, d := range docs {
		byID[d[IDField]] = d
		assert.Equal(t, stampValue, d[CreatedAtField], "bulk insert shares one timestamp")
		assert.Equal(t, d[CreatedAtField], d[UpdatedAtField])
	}
	assert.Equal(t, "a", byID[ids[0]]["name"])
	assert.Equal(t, "b", byID[ids[1]]["name"])
	assert.Equal(t, "c", byID[ids[2]]["name"])
}

func TestCreateDocumentsEmpty(t *testing.T) {
	c := newBoltClient(t)
	ids, err := c.CreateDocuments(context.Background(), "furnitureproduct", nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	names, err := c.ListCollectionNames(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestGetDocumentsFilterAndLimit(t *testing.T) {
	c := newBoltClient(t)
	ctx := context.Background()

	_, err := c.CreateDocuments(ctx, "furnitureproduct", []interface{}{
		sampleRecord{Name: "a", Category: "ormar", Featured: true},
		sampleRecord{Name: "b", Category: "kuhinja"},
		sampleRecord{Name: "c", Category: "ormar"},
		sampleRecord{Name: "d", Category: "Ormar"},
	})
	require.NoError(t, err)

	docs, err := c.GetDocuments(ctx, "furnitureproduct", Filter{"category": "ormar"}, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	for _, d := range docs {
		assert.Equal(t, "ormar", d["category"])
	}

	docs, err = c.GetDocuments(ctx, "furnitureproduct", Filter{"category": "ormar"}, 1)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	docs, err = c.GetDocuments(ctx, "furnitureproduct", Filter{"category": "ormar", "featured": true}, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0]["name"])

	docs, err = c.GetDocuments(ctx, "missing", nil, 0)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDiagnose(t *testing.T) {
	ctx := context.Background()
	unavailable, err := Connect(ctx, config.DatabaseConfig{Type: config.DatabaseMongo}, 1)
	require.NoError(t, err)
	d := unavailable.Diagnose(ctx, config.DatabaseConfig{Type: config.DatabaseMongo})
	assert.Equal(t, "Running", d.Backend)
	assert.Equal(t, "Not Connected", d.ConnectionStatus)
	assert.Equal(t, "Not Set", d.DatabaseURL)
	assert.Equal(t, "Not Set", d.DatabaseName)
	assert.NotNil(t, d.Collections)
	assert.Empty(t, d.Connected)

	c := newBoltClient(t)
	for i := 0; i < 12; i++ {
		_, err := c.CreateDocument(ctx, "collection"+string(rune('a'+i)), Document{"n": i})
		require.NoError(t, err)
	}
	d = c.Diagnose(ctx, config.DatabaseConfig{Type: config.DatabaseBolt, URL: "x", Name: "catalog"})
	assert.Equal(t, "Connected & Working", d.Database)
	assert.Equal(t, "Connected", d.ConnectionStatus)
	assert.Equal(t, "Set", d.DatabaseURL)
	assert.Len(t, d.Collections, 10)
	assert.Equal(t, "catalog", d.Connected)
	assert.Equal(t, config.DatabaseBolt, d.DatabaseType)
}

func TestEnsureCollections(t *testing.T) {
	ctx := context.Background()
	c := newBoltClient(t)

	require.NoError(t, c.EnsureCollections(ctx, []string{"furnitureproduct", "orders"}))
	require.NoError(t, c.EnsureCollections(ctx, []string{"furnitureproduct"}))

	names, err := c.ListCollectionNames(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"furnitureproduct", "orders"}, names)

	docs, err := c.GetDocuments(ctx, "orders", nil, 0)
	require.NoError(t, err)
	assert.Empty(t, docs)

	unavailable, err := Connect(ctx, config.DatabaseConfig{Type: config.DatabaseBolt}, 1)
	require.NoError(t, err)
	assert.True(t, errors.Is(unavailable.EnsureCollections(ctx, []string{"x"}), ErrStoreUnavailable))
}

func TestMongoBackend(t *testing.T) {
	uri := os.Getenv("CATALOG_TEST_MONGO_URL")
	if uri == "" {
		t.Skip("CATALOG_TEST_MONGO_URL not set")
	}
	ctx := context.Background()
	c, err := Connect(ctx, config.DatabaseConfig{Type: config.DatabaseMongo, URL: uri, Name: "catalog_test"}, 1)
	require.NoError(t, err)
	defer c.Close(ctx)

	collection := "furnitureproduct_" + time.Now().Format("20060102150405")
	ids, err := c.CreateDocuments(ctx, collection, []interface{}{
		sampleRecord{Name: "a", Category: "ormar"},
		sampleRecord{Name: "b", Category: "kuhinja"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	docs, err := c.GetDocuments(ctx, collection, Filter{"category": "ormar"}, 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, ids[0], docs[0][IDField])
	assert.IsType(t, time.Time{}, docs[0][CreatedAtField])
}

func TestPostgresBackend(t *testing.T) {
	dsn := os.Getenv("CATALOG_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CATALOG_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	ns := "catalog_test_" + time.Now().Format("20060102150405")
	c, err := Connect(ctx, config.DatabaseConfig{Type: config.DatabasePostgres, URL: dsn, Name: ns}, 1)
	require.NoError(t, err)
	defer c.Close(ctx)

	ids, err := c.CreateDocuments(ctx, "furnitureproduct", []interface{}{
		sampleRecord{Name: "a", Category: "ormar", Featured: true},
		sampleRecord{Name: "b", Category: "ormar"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	docs, err := c.GetDocuments(ctx, "furnitureproduct", Filter{"category": "ormar", "featured": true}, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0]["name"])

	names, err := c.ListCollectionNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"furnitureproduct"}, names)
}
