package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jkowalik/giftdraw/internal/mailer"
	"github.com/jkowalik/giftdraw/internal/matching"
	"github.com/jkowalik/giftdraw/internal/models"
	"github.com/jkowalik/giftdraw/internal/roster"
	"github.com/jkowalik/giftdraw/internal/storage"
	"github.com/jkowalik/giftdraw/internal/storage/sqlite"
	"github.com/jkowalik/giftdraw/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func usage() {
	fmt.Fprint(os.Stderr, `giftdraw - constrained Secret Santa assignments

Usage:
  giftdraw draw [flags]   compute a matching and save it to the draw history
  giftdraw send [flags]   email each giver their assignment from a saved draw

Run "giftdraw <command> -h" for command flags.
`)
}

func main() {
	logging.Setup()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "draw":
		err = runDraw(os.Args[2:])
	case "send":
		err = runSend(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "giftdraw: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error("Command failed", "error", err)
		if errors.Is(err, matching.ErrNoPerfectMatching) {
			slog.Info("Consider relaxing allowlists in people.json or raising -attempts")
		}
		os.Exit(1)
	}
}

func runDraw(args []string) error {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	people := fs.String("people", "people.json", "path to the participant roster")
	dbPath := fs.String("db", getEnv("DB_PATH", "./data/draws.db"), "path to the draw history database")
	out := fs.String("out", "", "optional results.json export path")
	attempts := fs.Int("attempts", matching.DefaultAttempts, "maximum shuffle-and-match tries")
	seed := fs.Int64("seed", 0, "random seed for a reproducible draw (default: time-based)")
	collectAll := fs.Bool("collect-all", false, "collect all distinct matchings found and pick one at random")
	fs.Parse(args)

	cfg := matching.Config{Attempts: *attempts, CollectAll: *collectAll}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.Seed = seed
		}
	})

	ros, err := roster.Load(*people)
	if err != nil {
		return err
	}
	slog.Info("Roster loaded", "path", *people, "participants", ros.Len())

	searcher := matching.NewSearcher(cfg)
	slog.Info("Searching for a constrained matching",
		"attempts", searcher.Attempts(),
		"collect_all", searcher.CollectAll(),
		"seed", searcher.EffectiveSeed(),
	)
	assignments, err := searcher.Run(ros)
	if err != nil {
		return err
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	draw := &models.Draw{
		Assignments: assignments,
		Seed:        searcher.EffectiveSeed(),
		Attempts:    searcher.Attempts(),
		CollectAll:  searcher.CollectAll(),
	}
	if err := store.SaveDraw(context.Background(), draw); err != nil {
		return err
	}

	// The operator never learns who drew whom: metadata only.
	slog.Info("Draw saved", "draw_id", draw.ID, "assignments", len(assignments))

	if *out != "" {
		if err := writeResults(*out, assignments); err != nil {
			return err
		}
		slog.Info("Results exported", "path", *out)
	}
	return nil
}

func runSend(args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	people := fs.String("people", "people.json", "path to the participant roster")
	configPath := fs.String("config", "config.json", "path to the SMTP/email configuration")
	dbPath := fs.String("db", getEnv("DB_PATH", "./data/draws.db"), "path to the draw history database")
	drawID := fs.String("draw", "", "draw ID to send (default: latest)")
	only := fs.String("only", "", "send only to a single giver (full name or email)")
	dryRun := fs.Bool("dry-run", false, "preview messages instead of sending")
	fs.Parse(args)

	ros, err := roster.Load(*people)
	if err != nil {
		return err
	}

	cfg, err := mailer.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var draw *models.Draw
	if *drawID != "" {
		draw, err = store.GetDraw(ctx, *drawID)
	} else {
		draw, err = store.LatestDraw(ctx)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no saved draw to send; run \"giftdraw draw\" first: %w", err)
	}
	if err != nil {
		return err
	}
	slog.Info("Draw loaded", "draw_id", draw.ID, "assignments", len(draw.Assignments))

	m, err := mailer.New(cfg, nil)
	if err != nil {
		return err
	}
	if err := m.Send(draw.Assignments, ros, mailer.Options{DryRun: *dryRun, Only: *only}); err != nil {
		return err
	}

	if *dryRun {
		slog.Info("Dry run finished, nothing was sent")
	} else {
		slog.Info("Emails sent")
	}
	return nil
}

// resultsFile matches the export artifact shape: {"assignments": {...}}.
type resultsFile struct {
	Assignments map[string]string `json:"assignments"`
}

func writeResults(path string, assignments map[string]string) error {
	data, err := json.MarshalIndent(resultsFile{Assignments: assignments}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
