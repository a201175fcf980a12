package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ybenkirane/pointage/internal/config"
	"github.com/ybenkirane/pointage/internal/db"
	"github.com/ybenkirane/pointage/internal/hardware"
	"github.com/ybenkirane/pointage/internal/httpapi"
	"github.com/ybenkirane/pointage/internal/pointage/service"
	sqlitestore "github.com/ybenkirane/pointage/internal/pointage/store/sqlite"
	"github.com/ybenkirane/pointage/internal/pointage/types"
)

func main() {
	var (
		configPath = pflag.String("config", "", "path to YAML config file (optional)")
		addr       = pflag.String("addr", "", "listen address, overrides config")
		seedDev    = pflag.Bool("seed-dev", false, "seed development fixtures into the database")
	)
	pflag.Parse()

	logger := log.New(os.Stdout, "pointage-server ", log.LstdFlags|log.LUTC)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatalf("timezone %q: %v", cfg.Timezone, err)
	}

	closing, err := types.ParseTimeOfDay(cfg.ClosingTime)
	if err != nil {
		logger.Fatalf("closing_time %q: %v", cfg.ClosingTime, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	sqlDB, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		logger.Fatalf("open db: %v", err)
	}
	defer sqlDB.Close()

	if *seedDev {
		if cfg.Env != "dev" {
			logger.Fatal("--seed-dev is only allowed with env=dev")
		}
		if err := db.SeedDev(ctx, sqlDB); err != nil {
			logger.Fatalf("seed dev fixtures: %v", err)
		}
		logger.Println("seeded development fixtures")
	}

	writer := db.NewWorker(sqlDB)
	defer writer.Close()

	// Stores
	events := sqlitestore.NewEventStore(sqlDB, writer)
	decisions := sqlitestore.NewDecisionStore(sqlDB, writer)
	rules := sqlitestore.NewRuleStore(sqlDB)
	staff := sqlitestore.NewStaffStore(sqlDB)
	badges := sqlitestore.NewBadgeStore(sqlDB, writer)
	readers := sqlitestore.NewReaderStore(sqlDB, writer)
	notifications := sqlitestore.NewNotificationStore(sqlDB, writer)

	// Services
	access := service.NewAccessService(service.AccessDeps{
		Badges:    service.NewBadgeRegistry(badges, nil),
		Staff:     staff,
		Rules:     rules,
		Events:    events,
		Decisions: decisions,
		Logger:    logger,
		Location:  loc,
	})
	accountant := service.NewAccountant(events, staff, staff, rules, loc, nil)

	// Background jobs
	detector := service.NewAnomalyDetector(staff, events, staff, notifications, service.DetectorConfig{
		ClosingTime: closing,
		MaxBreak:    time.Duration(cfg.MaxBreakMinutes) * time.Minute,
		Interval:    time.Duration(cfg.SweepIntervalMinutes) * time.Minute,
		PageSize:    cfg.SweepPageSize,
		Location:    loc,
	}, logger)
	detector.Start(ctx)
	defer detector.Stop()

	prober := service.NewReaderProber(readers, hardware.NewDialProber(), service.ProberConfig{
		Timeout:  time.Duration(cfg.ProbeTimeoutSeconds) * time.Second,
		Interval: time.Duration(cfg.ProbeIntervalMinutes) * time.Minute,
	}, logger)
	prober.Start(ctx)
	defer prober.Stop()

	if cfg.DecisionRetentionDays > 0 {
		pruner := service.NewDecisionPruner(decisions, service.PrunerConfig{
			RetentionDays: cfg.DecisionRetentionDays,
			IntervalHours: cfg.PruneIntervalHours,
		}, logger)
		pruner.Start(ctx)
		defer pruner.Stop()
	}

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:     logger,
		Addr:       cfg.HTTPAddr,
		Access:     access,
		Accountant: accountant,
		Decisions:  decisions,
		Location:   loc,
	})

	go func() {
		logger.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.Start(); err != nil {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
