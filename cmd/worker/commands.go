package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/imageanchor/artaday-backend/config"
	"github.com/imageanchor/artaday-backend/internal/bootstrap"
	"github.com/imageanchor/artaday-backend/internal/daily_art/session"
)

const syncTimeout = 30 * time.Second

// cliUID keys the worker's session in the registry.
const cliUID = "cli"

// withDiary loads config, opens the store and runs fn once the history has synced.
func withDiary(fn func(ctx context.Context, d *bootstrap.Diary) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return runWithConfig(cfg, fn)
}

func runWithConfig(cfg *config.Config, fn func(ctx context.Context, d *bootstrap.Diary) error) error {
	ctx := context.Background()

	res, err := bootstrap.OpenResources(ctx, cfg)
	if err != nil {
		return err
	}
	defer res.Close()

	diary, err := bootstrap.NewDiary(cfg, res.Store)
	if err != nil {
		return err
	}
	if err := diary.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		diary.Stop(stopCtx)
	}()

	waitCtx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()
	if err := diary.WaitSynced(waitCtx); err != nil {
		return fmt.Errorf("waiting for entry history: %w", err)
	}

	return fn(ctx, diary)
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RunSubmit records today's entry for the given phrase, going through the same
// session rules as the app.
func RunSubmit(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: worker submit <phrase>")
	}
	query := strings.Join(args, " ")
	return withDiary(func(ctx context.Context, d *bootstrap.Diary) error {
		return submit(ctx, d, query, out)
	})
}

func submit(ctx context.Context, d *bootstrap.Diary, query string, out io.Writer) error {
	sess := d.Sessions.For(cliUID)
	if sess.Snapshot().State != session.StateAddEntry {
		if _, err := sess.Dispatch(session.EventOpenAddEntry); err != nil {
			return err
		}
	}
	entry, err := sess.Submit(ctx, query)
	if err != nil {
		return err
	}
	return writeJSON(out, map[string]interface{}{
		"key":        entry.Key,
		"timeStamp":  entry.TimeStamp,
		"dailyQuery": entry.DailyQuery,
		"dailyArt":   entry.DailyArt,
	})
}

// RunGate prints whether today's entry may still be submitted.
func RunGate(out io.Writer) error {
	return withDiary(func(ctx context.Context, d *bootstrap.Diary) error {
		return writeJSON(out, d.Gate.State())
	})
}

// RunEntries prints one line per entry in date order.
func RunEntries(out io.Writer) error {
	return withDiary(func(ctx context.Context, d *bootstrap.Diary) error {
		return printEntries(d, out)
	})
}

func printEntries(d *bootstrap.Diary, out io.Writer) error {
	for _, e := range d.Projection.Entries() {
		title := e.DailyArt.Title
		if title == "" {
			title = "(untitled)"
		}
		if _, err := fmt.Fprintf(out, "%-10s  %-24s  %s  [%d]\n", e.Day, e.DailyQuery, title, e.DailyArt.ObjectID); err != nil {
			return err
		}
	}
	return nil
}

// RunWall prints the AR wall layout.
func RunWall(out io.Writer) error {
	return withDiary(func(ctx context.Context, d *bootstrap.Diary) error {
		return writeJSON(out, d.Wall.Build(d.Projection.Entries()))
	})
}
