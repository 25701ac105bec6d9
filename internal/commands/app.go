package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oficina-erp/oficina/internal/catalog"
	"github.com/oficina-erp/oficina/internal/codec"
	"github.com/oficina-erp/oficina/internal/config"
	"github.com/oficina-erp/oficina/internal/gitops"
	"github.com/oficina-erp/oficina/internal/ledger"
	"github.com/oficina-erp/oficina/internal/logger"
	"github.com/oficina-erp/oficina/internal/model"
	"github.com/oficina-erp/oficina/internal/orders"
	"github.com/oficina-erp/oficina/internal/repository"
	"github.com/oficina-erp/oficina/internal/store"
)

const configFileName = config.FileName

// loader is the part of a repository the app needs after wiring.
type loader interface {
	Load(ctx context.Context) error
	Err() error
	Key() string
}

// app holds everything one command invocation works with.
type app struct {
	dir       string
	cfg       *config.Config
	committer gitops.Committer
	closeFn   func()
	logFile   io.Closer
	repos     []loader

	catalog *catalog.Service
	items   map[model.Kind]*orders.Service
	ledgers map[model.Direction]*ledger.Service
}

// openApp loads the project config, opens the configured store and loads
// every collection.
func openApp(ctx context.Context, dir string) (*app, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.LoadProject(absDir)
	if err != nil {
		return nil, err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	if out := cfg.Logging.Output; out != "" {
		if out != "stdout" && out != "stderr" && !filepath.IsAbs(out) {
			out = filepath.Join(absDir, out)
		}
		logCfg.Output = out
	}
	logFile, err := logger.Setup(logCfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		dir:     absDir,
		cfg:     cfg,
		logFile: logFile,
		closeFn: func() {},
		items:   make(map[model.Kind]*orders.Service),
		ledgers: make(map[model.Direction]*ledger.Service),
	}

	st, err := a.openStore(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	a.wire(st)

	for _, r := range a.repos {
		if err := r.Load(ctx); err != nil {
			a.close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) (store.Store, error) {
	switch a.cfg.Storage.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendPostgres:
		pool, err := store.NewPool(ctx, a.cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		pg, err := store.NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		a.closeFn = pg.Close
		return pg, nil
	default:
		dataDir := a.cfg.DataDir(a.dir)
		fs, err := store.NewFileStore(dataDir)
		if err != nil {
			return nil, err
		}
		a.committer = gitops.Committer{
			Dir:     a.dir,
			Author:  gitops.Author{Name: a.cfg.Git.AuthorName, Email: a.cfg.Git.AuthorEmail},
			Enabled: a.cfg.Git.AutoCommit,
		}
		return fs, nil
	}
}

func (a *app) wire(st store.Store) {
	repoLog := logger.WithComponent("repository")

	products := repository.New[model.Product](st, store.KeyProducts, codec.Products{}, repoLog)
	a.repos = append(a.repos, products)
	a.catalog = catalog.NewService(products, logger.WithComponent("catalog"))

	for kind, key := range map[model.Kind]string{
		model.KindQuote:         store.KeyQuotes,
		model.KindSalesOrder:    store.KeySalesOrders,
		model.KindPurchaseOrder: store.KeyPurchaseOrders,
	} {
		repo := repository.New[model.ItemDocument](st, key, codec.Items{Kind: kind}, repoLog)
		a.repos = append(a.repos, repo)
		a.items[kind] = orders.NewService(kind, repo, a.catalog, logger.WithComponent("orders"))
	}

	policy := ledger.Policy{AllowOverpayment: a.cfg.Ledger.AllowOverpayment}
	for direction, key := range map[model.Direction]string{
		model.Payable:    store.KeyPayables,
		model.Receivable: store.KeyReceivables,
	} {
		repo := repository.New[model.LedgerDocument](st, key, codec.Ledger{Direction: direction}, repoLog)
		a.repos = append(a.repos, repo)
		a.ledgers[direction] = ledger.NewService(direction, repo, policy, logger.WithComponent("ledger"))
	}
}

// finish reports persistence failures, commits the data directory when git
// auto-commit is on, and releases the store.
func (a *app) finish(ctx context.Context, message string) error {
	defer a.close()

	for _, r := range a.repos {
		if err := r.Err(); err != nil {
			return fmt.Errorf("saving %s: %w", r.Key(), err)
		}
	}
	if message == "" {
		return nil
	}
	if _, err := a.committer.Commit(ctx, message); err != nil {
		fmt.Fprintf(os.Stderr, "warning: auto-commit failed: %v\n", err)
	}
	return nil
}

func (a *app) close() {
	a.closeFn()
	if err := a.logFile.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing log file: %v\n", err)
	}
}

// withApp opens the app, runs fn and finishes with the message fn returns.
// An empty message marks a read-only command.
func withApp(ctx context.Context, dir string, fn func(*app) (string, error)) error {
	a, err := openApp(ctx, dir)
	if err != nil {
		return err
	}
	message, err := fn(a)
	if err != nil {
		a.close()
		return err
	}
	return a.finish(ctx, message)
}
