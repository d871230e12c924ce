// Command api serves the expense reporting REST API.
//
// @title        Expense API
// @version      1.0
// @description  Expense submission, approval workflow, dashboard and export.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goversion "github.com/caarlos0/go-version"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	_ "github.com/99minutos/expense-system/docs"
	"github.com/99minutos/expense-system/internal/api"
	"github.com/99minutos/expense-system/internal/core/ports"
	"github.com/99minutos/expense-system/internal/core/service"
	"github.com/99minutos/expense-system/internal/infrastructure/db/memory"
	mongostore "github.com/99minutos/expense-system/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/expense-system/internal/infrastructure/db/redis"
	ops "github.com/99minutos/expense-system/internal/infrastructure/http"
	"github.com/99minutos/expense-system/internal/infrastructure/http/handlers"
	"github.com/99minutos/expense-system/internal/infrastructure/messaging"
	"github.com/99minutos/expense-system/internal/infrastructure/queue"
	"github.com/99minutos/expense-system/internal/pkg/clock"
	"github.com/99minutos/expense-system/internal/pkg/config"
	"github.com/99minutos/expense-system/pkg/logger"
)

const serviceName = "expense-api"

// Set at build time with -ldflags "-X main.version=...".
var (
	version   = ""
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: serviceName,
	})

	info := buildVersion()
	log.Info().
		Str("version", info.GitVersion).
		Str("commit", info.GitCommit).
		Str("backend", cfg.StoreBackend).
		Str("timezone", cfg.Timezone).
		Msg("starting")

	if err := run(cfg, info, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func run(cfg *config.Config, info goversion.Info, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.NewSystem(cfg.Location())

	store, err := openStore(ctx, cfg, clk, log)
	if err != nil {
		return err
	}
	defer store.close()

	if cfg.SeedSampleData {
		if err := service.SeedSampleData(ctx, store.seeder, clk.Now(), log); err != nil {
			return err
		}
	}

	checks := []handlers.DependencyCheck{{Name: cfg.StoreBackend, Check: store.ping}}

	var cache ports.StatsCache
	if cfg.Redis.Addr != "" {
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer client.Close()

		statsCache := redisstore.NewStatsCache(client, cfg.Redis.StatsTTL)
		cache = statsCache
		checks = append(checks, handlers.DependencyCheck{Name: "redis", Check: statsCache.Ping})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("stats cache enabled")
	}

	var publisher ports.EventPublisher = messaging.NewLogPublisher(log)
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := messaging.NewAMQPPublisher(messaging.AMQPConfig{
			URL:      cfg.AMQP.URL,
			Exchange: cfg.AMQP.Exchange,
			Queue:    cfg.AMQP.Queue,
		}, log)
		if err != nil {
			return err
		}
		defer amqpPublisher.Close()

		publisher = amqpPublisher
		checks = append(checks, handlers.DependencyCheck{Name: "amqp", Check: amqpPublisher.Ping})
	}

	dispatcher := queue.NewDispatcher(cfg.Events.Workers, publisher, log)

	e := api.NewRouter(api.Services{
		Users:     service.NewUserService(store.users, log),
		Expenses:  service.NewExpenseService(store.expenses, store.approvals, cache, dispatcher, clk, log),
		Approvals: service.NewApprovalService(store.approvals, cache, dispatcher, clk, log),
		Dashboard: service.NewDashboardService(store.expenses, cache, clk, log),
		Export: service.NewExportService(store.expenses, store.users, clk, service.ExportOptions{
			ReplaceDescriptionCommas: cfg.Export.ReplaceCommas,
		}, log),
	}, log)
	ops.RegisterOpsRoutes(e, info, checks...)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher.Start(workerCtx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}

		// Requests are drained; stop the workers once nothing else can enqueue.
		stopWorkers()
		dispatcher.Wait()
		return nil
	})

	return g.Wait()
}

// backend is the Record Store selected by STORE_BACKEND.
type backend struct {
	users     ports.UserRepository
	expenses  ports.ExpenseRepository
	approvals ports.ApprovalRepository
	seeder    ports.Seeder
	ping      func(context.Context) error
	close     func()
}

func openStore(ctx context.Context, cfg *config.Config, clk clock.Clock, log zerolog.Logger) (*backend, error) {
	if cfg.StoreBackend == config.BackendMemory {
		s := memory.NewStore(clk)
		log.Info().Msg("using in-memory store")
		return &backend{
			users:     s.Users(),
			expenses:  s.Expenses(),
			approvals: s.Approvals(),
			seeder:    s,
			ping:      s.Ping,
			close:     func() {},
		}, nil
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	s := mongostore.NewStore(db, clk)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("using mongodb store")

	return &backend{
		users:     s.Users,
		expenses:  s.Expenses,
		approvals: s.Approvals,
		seeder:    s,
		ping:      s.Ping,
		close: func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		},
	}, nil
}

func buildVersion() goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails(serviceName, "Expense reporting REST API", ""),
		func(i *goversion.Info) {
			if version != "" {
				i.GitVersion = version
			}
			if commit != "" {
				i.GitCommit = commit
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
