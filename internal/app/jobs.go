package app

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// cronLogger routes cron's own messages into zap.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	zap.S().Debugw(msg, append([]interface{}{"namespace", "cron"}, keysAndValues...)...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	zap.S().Errorw(msg, append([]interface{}{"namespace", "cron", "error", err}, keysAndValues...)...)
}

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.UTC
	}
	a.sched = cron.New(
		cron.WithLocation(loc),
		cron.WithParser(cronParser),
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
	)

	_, err = a.sched.AddFunc("@every 5m", a.SchedProcessMonitorTask)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	feed := a.appConfig.Importer
	if feed.FeedURL != "" && feed.FeedSchedule != "" {
		_, err = a.sched.AddFunc(feed.FeedSchedule, a.SchedFeedSyncTask)
		if err != nil {
			zap.L().Error("invalid feed schedule",
				zap.String("namespace", "app"),
				zap.String("schedule", feed.FeedSchedule),
				zap.Error(err))
		} else {
			zap.L().Info("feed sync scheduled",
				zap.String("namespace", "app"),
				zap.String("url", feed.FeedURL),
				zap.String("schedule", feed.FeedSchedule))
		}
	}

	a.sched.Start()
}

// SyncFeed imports the configured feed url once.
func (a *Application) SyncFeed() (int, error) {
	url := a.appConfig.Importer.FeedURL
	if url == "" {
		return 0, errors.New("no import feed configured")
	}
	return a.importer.ImportURL(context.Background(), url)
}

// SchedFeedSyncTask scheduled feed import
func (a *Application) SchedFeedSyncTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	start := time.Now()
	inserted, err := a.SyncFeed()
	if err != nil {
		zap.L().Error("feed sync failed", zap.String("namespace", "app"), zap.Error(err))
		return
	}
	zap.L().Info("feed sync finished",
		zap.String("namespace", "app"),
		zap.Int("inserted", inserted),
		zap.Duration("elapsed", time.Since(start)))
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: PID is always within int32 range
	if err != nil {
		return
	}
	fields := []zap.Field{zap.String("namespace", "app")}
	if cpuuse, err := p.CPUPercent(); err == nil {
		fields = append(fields, zap.Float64("cpu_percent", cpuuse))
	}
	if meminfo, err := p.MemoryInfo(); err == nil {
		fields = append(fields, zap.Uint64("rss_mb", meminfo.RSS/1024/1024))
	}
	if n, err := p.NumThreads(); err == nil {
		fields = append(fields, zap.Int32("threads", n))
	}
	zap.L().Debug("process stats", fields...)
}
