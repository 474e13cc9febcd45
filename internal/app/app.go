package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/groupstats/internal/config"
	"github.com/vovakirdan/groupstats/internal/core"
	"github.com/vovakirdan/groupstats/internal/groupme"
	"github.com/vovakirdan/groupstats/internal/history"
	"github.com/vovakirdan/groupstats/internal/report"
	"github.com/vovakirdan/groupstats/internal/stats"
	transporthttp "github.com/vovakirdan/groupstats/internal/transport/http"
	"github.com/vovakirdan/groupstats/internal/utils"
)

// Source is the upstream the app reads groups, rosters and message pages from.
type Source interface {
	history.PageFetcher
	Groups(ctx context.Context) ([]core.Group, error)
	Members(ctx context.Context, groupID string) ([]core.Member, error)
}

// App wires the GroupMe client, the history collector and the stats engine together.
type App struct {
	cfg       *config.Config
	source    Source
	collector *history.Collector
	log       *zerolog.Logger
}

// New constructs the application with provided configuration and a GroupMe client.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	client := groupme.New(groupme.Options{
		BaseURL:       cfg.BaseURL,
		Token:         cfg.AccessToken,
		Timeout:       cfg.RequestTimeout,
		GroupsPerPage: cfg.GroupsPerPage,
	}, logger)
	return NewWithSource(cfg, client, logger)
}

// NewWithSource constructs the application on top of an arbitrary Source.
func NewWithSource(cfg *config.Config, src Source, logger *zerolog.Logger) *App {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &App{
		cfg:       cfg,
		source:    src,
		collector: history.NewCollector(src, logger),
		log:       logger,
	}
}

// Groups lists the groups visible to the configured token.
func (a *App) Groups(ctx context.Context) ([]core.Group, error) {
	groups, err := a.source.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// Load fetches the roster and up to limit recent messages of groupID and aggregates them.
// A roster failure is returned; a history failure only shortens the history.
func (a *App) Load(ctx context.Context, groupID string, limit int) (*stats.Engine, history.History, error) {
	runLog := a.log.With().Str("run_id", utils.NewID()).Str("group_id", groupID).Logger()

	members, err := a.source.Members(ctx, groupID)
	if err != nil {
		return nil, history.History{}, fmt.Errorf("load roster: %w", err)
	}
	runLog.Debug().Int("members", len(members)).Msg("roster loaded")

	hist := a.collector.Collect(ctx, groupID, limit)
	evt := runLog.Info()
	if hist.Partial() {
		evt = runLog.Warn().Err(hist.Err)
	}
	evt.Int("messages", len(hist.Messages)).
		Int("pages", hist.Pages).
		Str("stop", hist.Stop.String()).
		Msg("history collected")

	return stats.New(members, hist.Messages), hist, nil
}

// Report loads groupID and writes the text report to out.
func (a *App) Report(ctx context.Context, groupID string, limit int, out io.Writer) error {
	engine, _, err := a.Load(ctx, groupID, limit)
	if err != nil {
		return err
	}
	return report.Write(out, engine, a.reportOptions())
}

// RunInteractive lists groups on out, reads a choice from in and prints that group's report.
func (a *App) RunInteractive(ctx context.Context, in io.Reader, out io.Writer, limit int) error {
	group, err := a.SelectGroup(ctx, in, out)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "Loading Stats for Group: %s\n", group.Name); err != nil {
		return err
	}
	return a.Report(ctx, group.ID, limit, out)
}

// Serve runs the stats API until context cancellation or fatal error.
func (a *App) Serve(ctx context.Context) error {
	server := transporthttp.NewServer(a, a.cfg, a.log)
	serverErr := make(chan error, 1)

	go func() {
		a.log.Info().Str("addr", a.cfg.Addr).Msg("starting stats api")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}

func (a *App) reportOptions() report.Options {
	opts := report.DefaultOptions()
	opts.TopMessages = a.cfg.TopMessages
	return opts
}

func (a *App) shutdownTimeout() time.Duration {
	if a.cfg.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return a.cfg.ShutdownTimeout
}
