package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/lingosync/internal/background"
	"github.com/at-ishikawa/lingosync/internal/cache"
	"github.com/at-ishikawa/lingosync/internal/catalog"
	"github.com/at-ishikawa/lingosync/internal/config"
	"github.com/at-ishikawa/lingosync/internal/database"
	"github.com/at-ishikawa/lingosync/internal/datasync"
	"github.com/at-ishikawa/lingosync/internal/kvstore"
	"github.com/at-ishikawa/lingosync/internal/lesson"
	"github.com/at-ishikawa/lingosync/internal/progress"
	"github.com/at-ishikawa/lingosync/internal/remote"
	"github.com/at-ishikawa/lingosync/internal/remote/rest"
	"github.com/at-ishikawa/lingosync/internal/statistics"
	"github.com/at-ishikawa/lingosync/internal/timespent"
	"github.com/at-ishikawa/lingosync/internal/vocab"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// backend is everything the core reads from and writes to the remote store.
type backend interface {
	remote.Prober
	lesson.Repository
	progress.Repository
	vocab.Repository
	timespent.Repository
	statistics.Repository
}

type (
	lessonRepository     = lesson.Repository
	progressRepository   = progress.Repository
	vocabRepository      = vocab.Repository
	timeSpentRepository  = timespent.Repository
	statisticsRepository = statistics.Repository
)

// mysqlBackend serves the remote store straight from MySQL.
type mysqlBackend struct {
	lessonRepository
	progressRepository
	vocabRepository
	timeSpentRepository
	statisticsRepository
	db *sqlx.DB
}

func newMySQLBackend(db *sqlx.DB) *mysqlBackend {
	return &mysqlBackend{
		lessonRepository:     lesson.NewDBRepository(db),
		progressRepository:   progress.NewDBRepository(db),
		vocabRepository:      vocab.NewDBRepository(db),
		timeSpentRepository:  timespent.NewDBRepository(db),
		statisticsRepository: statistics.NewDBRepository(db),
		db:                   db,
	}
}

func (b *mysqlBackend) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("db.PingContext() > %w: %w", remote.ErrTransient, err)
	}
	return nil
}

// openBackend is replaced in tests.
var openBackend = func(cfg *config.Config, logger *slog.Logger) (backend, io.Closer, error) {
	switch cfg.Remote.Driver {
	case "mysql":
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Open() > %w", err)
		}
		return newMySQLBackend(db), db, nil
	default:
		client := rest.NewClient(rest.Config{
			BaseURL: cfg.Remote.REST.BaseURL,
			APIKey:  cfg.Remote.REST.APIKey,
			Timeout: cfg.Remote.REST.Timeout,
		}, logger)
		return client, client, nil
	}
}

// app wires the core components for one command invocation.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	store       kvstore.CloseableStore
	remote      backend
	remoteClose io.Closer
	runner      *background.Runner
	cache       *cache.Manager

	catalog      *catalog.Catalog
	ledger       *progress.Ledger
	tracker      *vocab.Tracker
	minutes      *timespent.Aggregator
	stats        *statistics.Reconciler
	orchestrator *datasync.Orchestrator
	monitor      *datasync.Monitor
}

func newApp(cfg *config.Config, out io.Writer) (*app, error) {
	logger := slog.Default()

	store, err := kvstore.Open(kvstore.Options{
		Driver: cfg.Storage.Driver,
		Path:   cfg.Storage.Path,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("kvstore.Open() > %w", err)
	}
	repo, closer, err := openBackend(cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	codec := kvstore.NewCodec(store, logger)
	retry := remote.RetryPolicy{Attempts: cfg.Sync.RetryAttempts}

	a := &app{
		cfg:         cfg,
		logger:      logger,
		store:       store,
		remote:      repo,
		remoteClose: closer,
		runner:      background.NewRunner(0, logger),
		cache:       cache.NewManager(codec, logger),
	}
	a.catalog = catalog.New(a.cache, repo, logger)
	a.ledger = progress.NewLedger(codec, repo, a.runner, progress.Config{
		UserID:     cfg.User.ID,
		TotalPages: cfg.Lesson.TotalPages,
		Practice: lesson.PracticeRange{
			First: cfg.Lesson.PracticeFirstPage,
			Last:  cfg.Lesson.PracticeLastPage,
		},
	}, logger)
	a.tracker = vocab.NewTracker(codec, repo, repo, vocab.Config{
		UserID:    cfg.User.ID,
		BatchSize: cfg.Sync.BatchSize,
		Retry:     retry,
	}, logger)
	a.minutes = timespent.NewAggregator(codec, repo, timespent.Config{
		UserID:       cfg.User.ID,
		FlushTimeout: cfg.Sync.FlushTimeout,
		Retry:        retry,
	}, logger)
	a.stats = statistics.NewReconciler(codec, repo, a.minutes, a.ledger, cfg.User.ID, logger)
	a.orchestrator = datasync.NewOrchestrator(a.tracker, a.minutes, a.stats, out, logger)
	a.monitor = datasync.NewMonitor(repo, a.orchestrator, logger)

	a.ledger.OnComplete(
		progress.CompletionHook{
			Name: "mark lesson vocabulary learned",
			Run: func(ctx context.Context, ref lesson.Ref) error {
				_, err := a.tracker.MarkLessonVocabsLearned(ctx, ref.ID().String())
				return err
			},
		},
		progress.CompletionHook{
			Name: "sync pending vocabulary",
			Run: func(ctx context.Context, _ lesson.Ref) error {
				_, err := a.tracker.SyncPending(ctx)
				return err
			},
		},
		progress.CompletionHook{
			Name: "refresh statistics",
			Run: func(ctx context.Context, _ lesson.Ref) error {
				_, err := a.stats.Refresh(ctx)
				return err
			},
		},
	)
	return a, nil
}

// Close waits for background work and releases the stores.
func (a *app) Close() error {
	a.runner.Close()
	a.cache.Wait()
	var errs []error
	if a.remoteClose != nil {
		if err := a.remoteClose.Close(); err != nil {
			errs = append(errs, fmt.Errorf("remote.Close() > %w", err))
		}
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store.Close() > %w", err))
	}
	return errors.Join(errs...)
}

// withApp loads the config, builds the app and closes it after fn.
func withApp(out io.Writer, fn func(a *app) error) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, out)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(a)
}

func parseRefArgs(chapterArg, lessonArg string) (lesson.Ref, error) {
	chapterNo, err := strconv.Atoi(chapterArg)
	if err != nil || chapterNo < 1 {
		return lesson.Ref{}, fmt.Errorf("invalid chapter number: %s", chapterArg)
	}
	lessonNo, err := strconv.Atoi(lessonArg)
	if err != nil || lessonNo < 1 {
		return lesson.Ref{}, fmt.Errorf("invalid lesson number: %s", lessonArg)
	}
	return lesson.Ref{ChapterNo: chapterNo, LessonNo: lessonNo}, nil
}
