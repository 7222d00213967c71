package docstore

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// documentRow stores one document as a jsonb body.
type documentRow struct {
	ID         string         `gorm:"primaryKey;size:32"`
	Namespace  string         `gorm:"index:idx_document_scope;size:128"`
	Collection string         `gorm:"index:idx_document_scope;size:128"`
	Body       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

func (documentRow) TableName() string {
	return "catalog_documents"
}

type sqlBackend struct {
	db        *gorm.DB
	namespace string
	node      *snowflake.Node
}

func openSQL(dsn, name string, node *snowflake.Node) (*sqlBackend, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, err
	}
	return &sqlBackend{db: db, namespace: name, node: node}, nil
}

func (s *sqlBackend) InsertOne(ctx context.Context, collection string, doc Document) (string, error) {
	ids, err := s.InsertMany(ctx, collection, []Document{doc})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func (s *sqlBackend) InsertMany(ctx context.Context, collection string, docs []Document) ([]string, error) {
	rows := make([]documentRow, 0, len(docs))
	ids := make([]string, 0, len(docs))
	now := time.Now()
	for _, doc := range docs {
		raw, err := encodeBody(doc)
		if err != nil {
			return nil, err
		}
		id := s.node.Generate().String()
		rows = append(rows, documentRow{
			ID:         id,
			Namespace:  s.namespace,
			Collection: collection,
			Body:       datatypes.JSON(raw),
			CreatedAt:  now,
		})
		ids = append(ids, id)
	}
	if err := s.db.WithContext(ctx).CreateInBatches(rows, 100).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *sqlBackend) Find(ctx context.Context, collection string, filter Filter, limit int64) ([]Document, error) {
	db := s.db.WithContext(ctx).
		Where("namespace = ? AND collection = ?", s.namespace, collection)
	if len(filter) > 0 {
		raw, err := json.Marshal(filter)
		if err != nil {
			return nil, err
		}
		db = db.Where("body @> ?::jsonb", string(raw))
	}
	if limit > 0 {
		db = db.Limit(int(limit))
	}

	var rows []documentRow
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := decodeBody(row.ID, row.Body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *sqlBackend) ListCollectionNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&documentRow{}).
		Where("namespace = ?", s.namespace).
		Distinct("collection").
		Pluck("collection", &names).Error
	return names, err
}

// EnsureCollection is a no-op: collections are a column of the shared table,
// created on first insert.
func (s *sqlBackend) EnsureCollection(_ context.Context, _ string) error {
	return nil
}

func (s *sqlBackend) DatabaseName() string {
	return s.namespace
}

func (s *sqlBackend) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
