package main

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"

	"github.com/lox/cuescore/internal/game"
	"github.com/lox/cuescore/internal/randutil"
	"github.com/lox/cuescore/internal/tui"
)

type PlayCmd struct {
	Seed    *int64 `help:"Seed for the turn order shuffle"`
	NoColor bool   `name:"no-color" help:"Disable colour output"`
}

func (c *PlayCmd) Run(g *Globals) error {
	a, err := g.open(true, game.WithRand(randutil.FromSeed(c.Seed)))
	if err != nil {
		return err
	}
	defer a.Close()

	renderer := lipgloss.NewRenderer(g.stdout())
	if c.NoColor || !a.cfg.ColorEnabled() {
		renderer.SetColorProfile(termenv.Ascii)
	}

	model := tui.New(a.session, tui.Options{
		Logger:             a.logger,
		Clock:              quartz.NewReal(),
		Renderer:           renderer,
		Theme:              a.cfg.UI.Theme,
		NoticeDuration:     time.Duration(a.cfg.UI.NoticeMillis) * time.Millisecond,
		ConfirmDestructive: a.cfg.Confirm(),
	})

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return watchSignals(ctx, a.logger, cancel)
	})
	eg.Go(func() error {
		// Quitting the UI stops the signal watcher.
		defer cancel(nil)
		return tui.Run(ctx, model, g.Stdin, g.Stdout)
	})
	return eg.Wait()
}
