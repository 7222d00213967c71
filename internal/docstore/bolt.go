package docstore

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// boltBackend keeps every collection as a nested bucket under a bucket named
// after the database.
type boltBackend struct {
	db   *bolt.DB
	name string
	node *snowflake.Node
}

func openBolt(path, name string, node *snowflake.Node) (*boltBackend, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltBackend{db: db, name: name, node: node}, nil
}

func (b *boltBackend) collection(tx *bolt.Tx, name string, create bool) (*bolt.Bucket, error) {
	root := tx.Bucket([]byte(b.name))
	if root == nil {
		return nil, errors.Errorf("database bucket %s missing", b.name)
	}
	if create {
		return root.CreateBucketIfNotExists([]byte(name))
	}
	return root.Bucket([]byte(name)), nil
}

func (b *boltBackend) InsertOne(ctx context.Context, collection string, doc Document) (string, error) {
	ids, err := b.InsertMany(ctx, collection, []Document{doc})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func (b *boltBackend) InsertMany(_ context.Context, collection string, docs []Document) ([]string, error) {
	ids := make([]string, 0, len(docs))
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := b.collection(tx, collection, true)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			raw, err := encodeBody(doc)
			if err != nil {
				return err
			}
			id := b.node.Generate().String()
			if err := bucket.Put([]byte(id), raw); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (b *boltBackend) Find(_ context.Context, collection string, filter Filter, limit int64) ([]Document, error) {
	docs := []Document{}
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket, err := b.collection(tx, collection, false)
		if err != nil || bucket == nil {
			return err
		}
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			doc, err := decodeBody(string(k), v)
			if err != nil {
				return errors.Wrapf(err, "decode document %s", k)
			}
			if !matches(doc, filter) {
				continue
			}
			docs = append(docs, doc)
			if limit > 0 && int64(len(docs)) >= limit {
				break
			}
		}
		return nil
	})
	return docs, err
}

func (b *boltBackend) ListCollectionNames(_ context.Context) ([]string, error) {
	names := []string{}
	err := b.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(b.name))
		if root == nil {
			return nil
		}
		return root.ForEach(func(k, v []byte) error {
			// nested buckets have a nil value
			if v == nil {
				names = append(names, string(k))
			}
			return nil
		})
	})
	return names, err
}

func (b *boltBackend) EnsureCollection(_ context.Context, collection string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		_, err := b.collection(tx, collection, true)
		return err
	})
}

func (b *boltBackend) DatabaseName() string {
	return b.name
}

func (b *boltBackend) Close(_ context.Context) error {
	return b.db.Close()
}
