package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/udisondev/tradecraft/internal/config"
	"github.com/udisondev/tradecraft/internal/data"
	"github.com/udisondev/tradecraft/internal/db"
	"github.com/udisondev/tradecraft/internal/game/market"
)

const ConfigPath = "config/tradecraft.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("TRADECRAFT_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	slog.Info("tradecraft starting", "config", cfgPath, "log_level", cfg.LogLevel)

	catalog, err := data.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	slog.Info("catalog loaded", "items", len(catalog.Items()), "shops", len(catalog.Shops()))

	var journal market.Journal
	var totals func(context.Context) (map[market.Kind]db.JournalTotals, error)
	if cfg.Journal.Enabled {
		database, err := db.New(ctx, cfg.Journal.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Journal.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		repo := database.Journal()
		journal = repo
		totals = repo.Totals
	} else {
		journal = market.NewMemoryJournal()
	}

	desk := market.NewDesk(journal)

	if err := runScenario(ctx, os.Stdout, cfg, catalog, desk); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}

	report, err := simulate(ctx, cfg, catalog, desk)
	if err != nil {
		return fmt.Errorf("market simulation: %w", err)
	}

	p := message.NewPrinter(language.English)
	report.print(p, os.Stdout)

	if totals != nil {
		byKind, err := totals(ctx)
		if err != nil {
			return fmt.Errorf("reading journal totals: %w", err)
		}
		for _, kind := range []market.Kind{market.KindTransfer, market.KindTrade, market.KindCraft} {
			t := byKind[kind]
			p.Printf("journal %-8s committed=%d rejected=%d amount=%d\n", kind, t.Committed, t.Rejected, t.Amount)
		}
	}

	if err := report.check(); err != nil {
		return err
	}

	slog.Info("tradecraft finished",
		"committed", desk.Stats().Committed,
		"rejected", desk.Stats().Rejected)
	return nil
}
