package app

import (
	"github.com/odnamestaj/catalog/config"
	"github.com/odnamestaj/catalog/internal/catalog"
	"github.com/odnamestaj/catalog/internal/docstore"
	"github.com/odnamestaj/catalog/internal/importer"
	"github.com/robfig/cron/v3"
)

// StoreProvider provides document store access
type StoreProvider interface {
	Store() *docstore.Client
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// CatalogProvider provides the product repository and importer
type CatalogProvider interface {
	Products() *catalog.ProductRepository
	Importer() *importer.Importer
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context
type AppContext interface {
	StoreProvider
	ConfigProvider
	CatalogProvider
	SchedulerProvider

	// SyncFeed imports the configured feed once, outside the schedule.
	SyncFeed() (int, error)
}
