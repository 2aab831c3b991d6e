package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/cuescore/internal/config"
	"github.com/lox/cuescore/internal/game"
	"github.com/lox/cuescore/internal/logging"
	"github.com/lox/cuescore/internal/storage"
)

// Globals are the flags shared by every command. Flag values override the
// config file.
type Globals struct {
	Config    string `help:"Path to HCL config file" default:"${defaultConfig}" type:"path"`
	DataDir   string `name:"data-dir" help:"Directory for saved state (overrides config)" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level: debug, info, warn, error"`
	LogFormat string `name:"log-format" help:"Log format: text, json, logfmt"`
	Ephemeral bool   `help:"Keep state in memory only"`

	Stdin  io.Reader `kong:"-"`
	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "cuescore", config.DefaultFile)
	}
	return config.DefaultFile
}

func (g *Globals) stdin() io.Reader {
	if g.Stdin != nil {
		return g.Stdin
	}
	return os.Stdin
}

func (g *Globals) stdout() io.Writer {
	if g.Stdout != nil {
		return g.Stdout
	}
	return os.Stdout
}

func (g *Globals) stderr() io.Writer {
	if g.Stderr != nil {
		return g.Stderr
	}
	return os.Stderr
}

// app is an opened session with everything a command needs.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	session *game.Session
	store   *game.Store
	adapter *storage.Adapter
	closers []io.Closer
}

// loadConfig reads the config file and applies flag overrides.
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if g.DataDir != "" {
		cfg.Storage.Dir = g.DataDir
	}
	if g.Ephemeral {
		cfg.Storage.Ephemeral = true
	}
	if g.LogLevel != "" {
		cfg.Log.Level = strings.ToLower(g.LogLevel)
	}
	if g.LogFormat != "" {
		cfg.Log.Format = strings.ToLower(g.LogFormat)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// open loads config and state. interactive sends logs to a file so they
// do not draw over the terminal UI.
func (g *Globals) open(interactive bool, opts ...game.Option) (*app, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	out, err := a.logOutput(g, interactive)
	if err != nil {
		return nil, err
	}
	a.logger, err = logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: out,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	var kv storage.KV
	if cfg.Storage.Ephemeral {
		kv = storage.NewMemoryKV()
	} else {
		kv = storage.NewFileKV(cfg.Storage.Dir)
	}
	a.adapter = storage.NewAdapter(kv, a.logger)

	a.store = game.NewStore(append([]game.Option{game.WithLogger(a.logger)}, opts...)...)
	a.store.Restore(a.adapter.Load())
	a.session = game.NewSession(a.store, a.adapter, a.logger)

	a.logger.Debug("Session opened",
		"config", g.Config,
		"dir", cfg.Storage.Dir,
		"ephemeral", cfg.Storage.Ephemeral,
		"players", len(a.store.Roster()),
		"rounds", len(a.store.History()))
	return a, nil
}

func (a *app) logOutput(g *Globals, interactive bool) (io.Writer, error) {
	path := a.cfg.Log.File
	if path == "" && interactive {
		if a.cfg.Storage.Ephemeral {
			return io.Discard, nil
		}
		path = filepath.Join(a.cfg.Storage.Dir, "cuescore.log")
	}
	if path == "" {
		return g.stderr(), nil
	}

	f, err := logging.OpenFile(path)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, f)
	return f, nil
}

// Close releases the log file, if one was opened.
func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

// dispatch runs intent through the session.
func (a *app) dispatch(intent game.Intent) (game.Outcome, error) {
	return a.session.Dispatch(intent)
}

// confirm asks a yes/no question on stdin unless skip is set or the
// config turns confirmation off.
func (g *Globals) confirm(a *app, skip bool, question string) (bool, error) {
	if skip || !a.cfg.Confirm() {
		return true, nil
	}
	fmt.Fprintf(g.stdout(), "%s [y/N] ", question)

	line, err := bufio.NewReader(g.stdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		fmt.Fprintln(g.stdout(), "Cancelled")
		return false, nil
	}
}
