package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"

	"github.com/damiad/net-worth-tracker/internal/api"
	"github.com/damiad/net-worth-tracker/internal/config"
	"github.com/damiad/net-worth-tracker/internal/database"
	"github.com/damiad/net-worth-tracker/internal/repository"
	"github.com/damiad/net-worth-tracker/internal/scheduler"
	"github.com/damiad/net-worth-tracker/internal/service"
	"github.com/damiad/net-worth-tracker/internal/version"
)

// Args are the command-line flags of the server. Everything else is
// configured through the environment.
type Args struct {
	EnvFile     string `arg:"--env-file" help:"Path to a .env file. By default ./.env is loaded when present."`
	MigrateOnly bool   `arg:"--migrate-only" help:"Apply database migrations and exit."`
	NoScheduler bool   `arg:"--no-scheduler" help:"Do not start scheduled interest accrual even when ACCRUAL_SCHEDULE is set."`
}

func (Args) Version() string {
	return version.Version
}

func (Args) Description() string {
	return "Net worth tracker API: sources, interest accrual, daily snapshots."
}

func main() {
	var args Args
	p, err := arg.NewParser(arg.Config{}, &args)
	if err != nil {
		log.Fatalf("Error creating argument parser: %v", err)
	}
	if err := p.Parse(os.Args[1:]); err != nil {
		switch {
		case errors.Is(err, arg.ErrHelp):
			p.WriteHelp(os.Stdout)
			os.Exit(0)
		case errors.Is(err, arg.ErrVersion):
			log.Printf("Version: %s", version.Version)
			os.Exit(0)
		}
		log.Fatalf("Error parsing arguments: %v", err)
	}

	// Load configuration
	cfg, err := config.Load(args.EnvFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if args.MigrateOnly {
		return
	}

	loc := cfg.Valuation.Location
	log.Printf("Reference timezone: %s", loc)

	// Create repositories
	sourceRepo := repository.NewSourceRepository(db)
	debtRepo := repository.NewPropertyDebtRepository(db)
	recordRepo := repository.NewSubRecordRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	rateRepo := repository.NewExchangeRateRepository(db)

	// Create services
	rateService := service.NewRateService(rateRepo)
	netWorthService := service.NewNetWorthService(sourceRepo, recordRepo, snapshotRepo, rateService)
	snapshotService := service.NewSnapshotService(snapshotRepo, netWorthService, loc)
	sourceService := service.NewSourceService(db, sourceRepo, debtRepo, recordRepo, snapshotService)
	interestService := service.NewInterestService(sourceRepo, debtRepo, recordRepo, snapshotService, loc)

	scheduled := cfg.Scheduler.AccrualSchedule != "" && !args.NoScheduler
	systemService := service.NewSystemService(db, map[string]bool{
		"scheduled_accrual": scheduled,
	})

	seeded, err := rateService.Seed(context.Background(), cfg.Valuation.SeedRates)
	if err != nil {
		log.Fatalf("Failed to seed exchange rates: %v", err)
	}
	if seeded > 0 {
		log.Printf("Seeded %d exchange rates", seeded)
	}

	var accrual *scheduler.Scheduler
	if scheduled {
		accrual, err = scheduler.New(cfg.Scheduler.AccrualSchedule, interestService, loc)
		if err != nil {
			log.Fatalf("Failed to configure scheduler: %v", err)
		}
		accrual.Start()
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:   systemService,
		Rates:    rateService,
		NetWorth: netWorthService,
		Sources:  sourceService,
		Interest: interestService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server %s on %s", version.Version, cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if accrual != nil {
		if err := accrual.Stop(ctx); err != nil {
			log.Printf("Scheduler did not stop cleanly: %v", err)
		}
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
