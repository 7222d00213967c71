package api

import (
	"github.com/odnamestaj/catalog/config"
	"github.com/odnamestaj/catalog/internal/catalog"
	"github.com/odnamestaj/catalog/internal/docstore"
	"github.com/odnamestaj/catalog/internal/importer"
	"github.com/odnamestaj/catalog/internal/webserver"
)

// Handlers carries the dependencies shared by every endpoint.
type Handlers struct {
	cfg      *config.AppConfig
	store    *docstore.Client
	products *catalog.ProductRepository
	importer *importer.Importer
}

func NewHandlers(cfg *config.AppConfig, store *docstore.Client, products *catalog.ProductRepository, imp *importer.Importer) *Handlers {
	return &Handlers{cfg: cfg, store: store, products: products, importer: imp}
}

// Register mounts all routes on s.
func Register(s *webserver.WebServer, h *Handlers) {
	h.registerHealthRoutes(s)
	h.registerProductRoutes(s)
}
