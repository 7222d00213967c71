package importer

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/odnamestaj/catalog/internal/domain"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ProductWriter bulk-inserts products and returns their ids in input order.
type ProductWriter interface {
	CreateMany(ctx context.Context, products []domain.FurnitureProduct) ([]string, error)
}

// Importer fetches external product lists, maps them and stores the result.
type Importer struct {
	products ProductWriter
	fetcher  Fetcher
	pool     *ants.Pool
}

// New creates an Importer mapping items on a pool of workers goroutines.
func New(products ProductWriter, fetcher Fetcher, workers int) (*Importer, error) {
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	return &Importer{products: products, fetcher: fetcher, pool: pool}, nil
}

// ImportURL fetches url, maps every item and bulk-inserts them.
func (i *Importer) ImportURL(ctx context.Context, url string) (int, error) {
	payload, err := i.fetcher.Fetch(url)
	if err != nil {
		return 0, err
	}
	items, err := decodeList(payload)
	if err != nil {
		return 0, err
	}
	inserted, err := i.ImportItems(ctx, items)
	if err != nil {
		return 0, err
	}
	zap.L().Info("products imported",
		zap.String("namespace", "importer"),
		zap.String("url", url),
		zap.Int("received", len(items)),
		zap.Int("inserted", inserted))
	return inserted, nil
}

// ImportItems maps already decoded items and inserts them. An empty list
// inserts nothing.
func (i *Importer) ImportItems(ctx context.Context, items []interface{}) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	products := MapItems(i.pool, items)
	ids, err := i.products.CreateMany(ctx, products)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// ImportDemo inserts the built-in sample set. Repeated calls insert duplicates.
func (i *Importer) ImportDemo(ctx context.Context) (int, error) {
	ids, err := i.products.CreateMany(ctx, DemoProducts())
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (i *Importer) Release() {
	i.pool.Release()
}
