package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hearth-ledger/hearth/internal/api"
	"github.com/hearth-ledger/hearth/internal/app/ledger"
	"github.com/hearth-ledger/hearth/internal/app/params"
	"github.com/hearth-ledger/hearth/internal/app/reconcile"
	"github.com/hearth-ledger/hearth/internal/app/registry"
	"github.com/hearth-ledger/hearth/internal/app/report"
	"github.com/hearth-ledger/hearth/internal/infra/dsa"
	"github.com/hearth-ledger/hearth/internal/infra/logging"
	"github.com/hearth-ledger/hearth/internal/infra/store"
)

// shutdownGrace bounds how long in-flight requests may run after a stop.
const shutdownGrace = 10 * time.Second

// Daemon owns the store and every service built on it.
type Daemon struct {
	cfg Config
	log *zap.Logger
	db  *store.DB

	Accounts   *registry.Service
	Ledger     *ledger.Ledger
	Reconcile  *reconcile.Service
	Report     *report.Service
	Parameters *params.Service
}

// New opens the store and wires the services. The caller must Close it.
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Daemon, error) {
	log = logging.OrNop(log)

	db, err := store.Open(ctx, cfg.Database.StoreConfig())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	d := &Daemon{cfg: cfg, log: log, db: db}
	d.Report = report.New(db, db, db, log)
	d.Accounts = registry.New(db, db, db, d.Report, log)
	d.Parameters = params.New(db, log)
	d.Reconcile = reconcile.New(d.Accounts, db, d.Report, log)
	d.Ledger = ledger.New(ledger.Config{
		Bloom: dsa.BloomConfig{
			ExpectedItems: cfg.Ledger.BloomExpectedItems,
			FPRate:        cfg.Ledger.BloomFPRate,
		},
	}, d.Accounts, d.Parameters, db, d.Report, log)

	if cfg.Ledger.WarmOnStart {
		if err := d.Ledger.Warm(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("warm ledger: %w", err)
		}
	}

	log.Info("store ready", zap.String("driver", db.Dialect()))
	return d, nil
}

// Close releases the store.
func (d *Daemon) Close() error {
	return d.db.Close()
}

// Handler builds the REST handler over the wired services.
func (d *Daemon) Handler() http.Handler {
	srv := api.NewServer(api.Services{
		Accounts:   d.Accounts,
		Ledger:     d.Ledger,
		Reconcile:  d.Reconcile,
		Report:     d.Report,
		Parameters: d.Parameters,
	}, d.log)
	if d.cfg.Metrics.Enabled {
		srv.EnableMetrics()
	}
	if timeout, err := d.cfg.API.Timeout(); err == nil {
		srv.SetTimeout(timeout)
	}
	srv.SetHealthCheck(func(r *http.Request) error { return d.db.Ping(r.Context()) })
	return srv.Handler()
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests.
func (d *Daemon) Serve(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              d.cfg.API.Addr(),
		Handler:           d.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.log.Info("listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		d.log.Info("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
