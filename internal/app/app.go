// Package app assembles the reader from its configuration.
package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"arabic-reader/internal/aggregator"
	"arabic-reader/internal/annotator"
	"arabic-reader/internal/config"
	"arabic-reader/internal/content"
	"arabic-reader/internal/content/fs"
	"arabic-reader/internal/content/minio"
	"arabic-reader/internal/domain"
	"arabic-reader/internal/lexicon"
	"arabic-reader/internal/lexicon/memory"
	"arabic-reader/internal/lexicon/postgres"
	"arabic-reader/internal/metrics"
	"arabic-reader/internal/notify"
	"arabic-reader/internal/service"
	"arabic-reader/internal/validator"
	"arabic-reader/internal/writer"
)

// App is an assembled reader. Close releases everything Build opened.
type App struct {
	Service  *service.ReaderServiceImpl
	Registry *prometheus.Registry

	dispatcher *notify.Dispatcher
	metricsSrv *http.Server
	closers    []func() error
	logger     *zap.Logger
}

// Build wires dictionaries, content store, notifier and service from cfg.
func Build(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Registry: prometheus.NewRegistry(), logger: logger}
	metrics.Register(a.Registry)

	dicts, err := a.dictionaries(ctx, cfg.Dictionaries)
	if err != nil {
		return nil, a.abort(err)
	}
	set, err := lexicon.NewSet(dicts, cfg.Lexicon.Writable)
	if err != nil {
		return nil, a.abort(err)
	}

	store, err := contentStore(ctx, cfg.Content)
	if err != nil {
		return nil, a.abort(err)
	}
	cached, err := content.NewCached(store, cfg.Content.CacheSize)
	if err != nil {
		return nil, a.abort(err)
	}

	var n domain.Notifier
	switch cfg.Notifier.Type {
	case "log", "":
		n = notify.NewLogSink(logger)
	case "webhook":
		n = notify.NewWebhook(notify.WebhookConfig{
			URL:     cfg.Notifier.Webhook.URL,
			Token:   os.Getenv(cfg.Notifier.Webhook.TokenEnv),
			Timeout: time.Duration(cfg.Notifier.TimeoutSecs) * time.Second,
		})
	default:
		return nil, a.abort(errors.Newf("unknown notifier: %s", cfg.Notifier.Type))
	}
	a.dispatcher, err = notify.NewDispatcher(n, cfg.Notifier.Workers,
		notify.WithLogger(logger),
		notify.WithTimeout(time.Duration(cfg.Notifier.TimeoutSecs)*time.Second))
	if err != nil {
		return nil, a.abort(err)
	}

	a.Service = service.NewReaderService(service.Deps{
		Content:    cached,
		Annotator:  annotator.New(set, annotator.WithLogger(logger)),
		Aggregator: aggregator.New(set.Dictionaries(), aggregator.WithLogger(logger)),
		Validator:  validator.New(),
		Writer:     writer.New(set, a.dispatcher, writer.WithLogger(logger)),
		Refresher:  set,
		Logger:     logger,
		TopUnknown: cfg.Report.TopUnknown,
	})

	if cfg.Metrics.Addr != "" {
		a.serveMetrics(cfg.Metrics.Addr)
	}
	return a, nil
}

func (a *App) dictionaries(ctx context.Context, cfgs []config.DictionaryConfig) ([]domain.Dictionary, error) {
	dicts := make([]domain.Dictionary, 0, len(cfgs))
	for _, dc := range cfgs {
		switch dc.Type {
		case "memory", "":
			d, err := memory.Open(dc.Name, dc.Path)
			if err != nil {
				return nil, errors.Wrapf(err, "open dictionary %s", dc.Name)
			}
			dicts = append(dicts, d)
		case "postgres":
			dsn := os.Getenv(dc.Postgres.DSNEnv)
			if dsn == "" {
				return nil, errors.Newf("dictionary %s: %s is not set", dc.Name, dc.Postgres.DSNEnv)
			}
			d, err := postgres.Open(ctx, dc.Name, postgres.Config{DSN: dsn, Table: dc.Postgres.Table})
			if err != nil {
				return nil, errors.Wrapf(err, "open dictionary %s", dc.Name)
			}
			a.closers = append(a.closers, d.Close)
			dicts = append(dicts, d)
		default:
			return nil, errors.Newf("unknown dictionary type: %s", dc.Type)
		}
	}
	return dicts, nil
}

func contentStore(ctx context.Context, cfg config.ContentConfig) (domain.ContentStore, error) {
	switch cfg.Type {
	case "fs", "":
		return fs.New(cfg.Dir)
	case "minio":
		m := cfg.MinIO
		return minio.New(ctx, minio.Config{
			Endpoint:  m.Endpoint,
			AccessKey: os.Getenv(m.AccessKeyEnv),
			SecretKey: os.Getenv(m.SecretKeyEnv),
			Bucket:    m.Bucket,
			Prefix:    m.Prefix,
			UseSSL:    m.UseSSL,
		})
	default:
		return nil, errors.Newf("unknown content store: %s", cfg.Type)
	}
}

func (a *App) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(a.Registry))
	a.metricsSrv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	a.logger.Info("serving metrics", zap.String("addr", addr))
}

// Close stops the metrics server, drains pending error reports and closes stores.
func (a *App) Close() error {
	var err error
	if a.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = multierr.Append(err, a.metricsSrv.Shutdown(ctx))
		cancel()
	}
	if a.dispatcher != nil {
		err = multierr.Append(err, a.dispatcher.Close(10*time.Second))
	}
	for _, c := range a.closers {
		err = multierr.Append(err, c())
	}
	return err
}

func (a *App) abort(err error) error {
	return multierr.Append(err, a.Close())
}
