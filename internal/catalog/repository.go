package catalog

import (
	"context"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/odnamestaj/catalog/internal/docstore"
	"github.com/odnamestaj/catalog/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// ListQuery is an exact-match product listing request.
type ListQuery struct {
	Category string
	Featured *bool
	Limit    int
}

// Filter builds the store filter for q.
func (q ListQuery) Filter() docstore.Filter {
	filter := docstore.Filter{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Featured != nil {
		filter["featured"] = *q.Featured
	}
	return filter
}

// ProductRepository reads and writes FurnitureProduct records.
type ProductRepository struct {
	store *docstore.Client
}

func NewProductRepository(store *docstore.Client) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) Create(ctx context.Context, p domain.FurnitureProduct) (string, error) {
	return r.store.CreateDocument(ctx, domain.FurnitureProductCollection, normalize(p))
}

// CreateMany inserts products in one bulk call; ids follow input order.
func (r *ProductRepository) CreateMany(ctx context.Context, products []domain.FurnitureProduct) ([]string, error) {
	records := make([]interface{}, len(products))
	for i, p := range products {
		records[i] = normalize(p)
	}
	return r.store.CreateDocuments(ctx, domain.FurnitureProductCollection, records)
}

func (r *ProductRepository) List(ctx context.Context, q ListQuery) ([]domain.FurnitureProduct, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	docs, err := r.store.GetDocuments(ctx, domain.FurnitureProductCollection, q.Filter(), limit)
	if err != nil {
		return nil, err
	}
	products := make([]domain.FurnitureProduct, 0, len(docs))
	for _, doc := range docs {
		p, err := decodeProduct(doc)
		if err != nil {
			zap.L().Warn("skipping undecodable product",
				zap.String("namespace", "catalog"),
				zap.Any("id", doc[docstore.IDField]),
				zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func normalize(p domain.FurnitureProduct) domain.FurnitureProduct {
	if p.Images == nil {
		p.Images = []string{}
	}
	return p
}

var timeType = reflect.TypeOf(time.Time{})

// stringToTimeHook accepts both RFC3339 text (json backends) and time values.
func stringToTimeHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if t != timeType || f.Kind() != reflect.String {
		return data, nil
	}
	s := reflect.ValueOf(data).String()
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func decodeProduct(doc docstore.Document) (domain.FurnitureProduct, error) {
	var p domain.FurnitureProduct
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToTimeHook,
		WeaklyTypedInput: true,
		Result:           &p,
	})
	if err != nil {
		return p, err
	}
	if err := decoder.Decode(map[string]interface{}(doc)); err != nil {
		return p, err
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}
