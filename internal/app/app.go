package app

import (
	"context"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/odnamestaj/catalog/config"
	"github.com/odnamestaj/catalog/internal/catalog"
	"github.com/odnamestaj/catalog/internal/docstore"
	"github.com/odnamestaj/catalog/internal/domain"
	"github.com/odnamestaj/catalog/internal/importer"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Application struct {
	appConfig *config.AppConfig
	store     *docstore.Client
	products  *catalog.ProductRepository
	importer  *importer.Importer
	sched     *cron.Cron
	oneShot   bool
}

var (
	_ StoreProvider     = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ CatalogProvider   = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

// WithoutJobs makes Init skip the cron scheduler, for one-shot runs.
func (a *Application) WithoutJobs() *Application {
	a.oneShot = true
	return a
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Store() *docstore.Client {
	return a.store
}

func (a *Application) Products() *catalog.ProductRepository {
	return a.products
}

func (a *Application) Importer() *importer.Importer {
	return a.importer
}

// Scheduler returns the cron scheduler, nil for one-shot runs.
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Init sets up logging, the document store and background jobs. A store
// that cannot be reached is logged and left unavailable so the HTTP layer
// still starts and reports the problem.
func (a *Application) Init(ctx context.Context) error {
	cfg := a.appConfig
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	logger, err := newLogger(cfg.Logger)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	zap.ReplaceGlobals(logger)

	a.store, err = docstore.Connect(ctx, cfg.Database, cfg.System.NodeID)
	if err != nil {
		zap.L().Error("document store connection failed",
			zap.String("namespace", "app"),
			zap.String("type", cfg.Database.Type),
			zap.Error(err))
	} else if a.store.Available() {
		if err := a.store.EnsureCollections(ctx, domain.Collections); err != nil {
			zap.L().Warn("collection setup failed", zap.String("namespace", "app"), zap.Error(err))
		}
	}

	a.products = catalog.NewProductRepository(a.store)
	a.importer, err = importer.New(a.products, importer.NewHTTPFetcher(cfg.Importer.Timeout), cfg.Importer.Workers)
	if err != nil {
		return errors.Wrap(err, "init importer")
	}

	if !a.oneShot {
		a.initJob()
	}
	return nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	if !cfg.FileEnable {
		return zapConfig.Build(zap.AddCaller())
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
		Compress:   false,
	}
	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(lumberJackLogger),
			zapConfig.Level,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			zapConfig.Level,
		),
	)
	return zap.New(core, zap.AddCaller()), nil
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	if a.importer != nil {
		a.importer.Release()
	}
	if a.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.store.Close(ctx); err != nil {
			zap.L().Warn("document store close failed", zap.String("namespace", "app"), zap.Error(err))
		}
	}
	_ = zap.L().Sync()
}
