package docstore

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoBackend struct {
	client *mongo.Client
	db     *mongo.Database
}

func openMongo(ctx context.Context, uri, name string) (*mongoBackend, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	return &mongoBackend{client: client, db: client.Database(name)}, nil
}

func (m *mongoBackend) InsertOne(ctx context.Context, collection string, doc Document) (string, error) {
	res, err := m.db.Collection(collection).InsertOne(ctx, bson.M(doc))
	if err != nil {
		return "", err
	}
	return idString(res.InsertedID), nil
}

func (m *mongoBackend) InsertMany(ctx context.Context, collection string, docs []Document) ([]string, error) {
	items := make([]interface{}, len(docs))
	for i, d := range docs {
		items[i] = bson.M(d)
	}
	res, err := m.db.Collection(collection).InsertMany(ctx, items)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(res.InsertedIDs))
	for i, id := range res.InsertedIDs {
		ids[i] = idString(id)
	}
	return ids, nil
}

func (m *mongoBackend) Find(ctx context.Context, collection string, filter Filter, limit int64) ([]Document, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := m.db.Collection(collection).Find(ctx, bson.M(filter), opts)
	if err != nil {
		return nil, err
	}
	var rows []bson.M
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, normalizeMongo(row))
	}
	return docs, nil
}

func (m *mongoBackend) ListCollectionNames(ctx context.Context) ([]string, error) {
	return m.db.ListCollectionNames(ctx, bson.D{})
}

// namespaceExists is the server code for creating a collection twice.
const namespaceExists = 48

func (m *mongoBackend) EnsureCollection(ctx context.Context, collection string) error {
	err := m.db.CreateCollection(ctx, collection)
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == namespaceExists {
		return nil
	}
	return err
}

func (m *mongoBackend) DatabaseName() string {
	return m.db.Name()
}

func (m *mongoBackend) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// normalizeMongo turns driver-specific values into plain Go values.
func normalizeMongo(row bson.M) Document {
	doc := make(Document, len(row))
	for k, v := range row {
		switch val := v.(type) {
		case primitive.ObjectID:
			doc[k] = val.Hex()
		case primitive.DateTime:
			doc[k] = val.Time().UTC()
		case primitive.A:
			doc[k] = []interface{}(val)
		default:
			doc[k] = v
		}
	}
	return doc
}

func idString(id interface{}) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}
