// Package app composes chatdesk with fx: configuration, logging, the
// session store and the selected front end.
package app

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/chatdesk/chatdesk/internal/bus"
	"github.com/chatdesk/chatdesk/internal/config"
	"github.com/chatdesk/chatdesk/internal/logging"
	"github.com/chatdesk/chatdesk/internal/paths"
	"github.com/chatdesk/chatdesk/internal/repl"
	"github.com/chatdesk/chatdesk/internal/reply"
	"github.com/chatdesk/chatdesk/internal/store"
	"github.com/chatdesk/chatdesk/internal/tui"
	"github.com/chatdesk/chatdesk/internal/tui/model"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Params holds the command-line choices passed to the fx module.
type Params struct {
	ConfigPath string // empty = paths.ConfigPath()
	LogPath    string // empty = paths.LogPath()
	LogLevel   string // overrides the configured level when set
	Plain      bool   // line-oriented REPL instead of the TUI
	Verbose    bool   // plain mode only: also log to stderr

	In  io.Reader // REPL input; nil = os.Stdin
	Out io.Writer // REPL output; nil = os.Stdout
}

// Frontend is a blocking user interface over the store.
type Frontend interface {
	Run() error
	Stop()
}

// Options returns the complete application: Module plus fx event logging
// through zap.
func Options(p Params) fx.Option {
	return fx.Options(
		Module(p),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
	)
}

// Module returns the fx module, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("chatdesk",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideReplies,
			provideStore,
			provideWatcher,
			provideFrontend,
		),
		fx.Invoke(registerLifecycle),
	)
}

func (p Params) configPath() string {
	if p.ConfigPath == "" {
		return paths.ConfigPath()
	}
	return p.ConfigPath
}

func provideConfig(p Params) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(p.configPath())
	if err != nil {
		return nil, err
	}
	if p.LogLevel != "" {
		cfg.LogLevel = p.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func provideLogger(p Params, cfg *config.Config) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	path := p.LogPath
	if path == "" {
		path = paths.LogPath()
	}
	return logging.New(logging.Options{
		Path:    path,
		Level:   level,
		Console: p.Plain && p.Verbose,
	})
}

func provideBus() *bus.Bus {
	return bus.New()
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid())))
}

func provideReplies() *reply.Engine {
	return reply.New(newRand())
}

func provideStore(cfg *config.Config, engine *reply.Engine, b *bus.Bus, logger *zap.Logger) *store.Store {
	lo, hi := cfg.ReplyDelay()
	s := store.New(
		store.WithReplies(engine),
		store.WithJitter(newRand()),
		store.WithDelay(lo, hi),
		store.WithBus(b),
		store.WithLogger(logger.Named("store")),
		store.WithSeed(cfg.Seed),
	)
	logger.Info("store initialized",
		zap.Int("chats", s.Len()),
		zap.Duration("min_delay", lo),
		zap.Duration("max_delay", hi))
	return s
}

// provideWatcher applies config edits made while running. Only the reply
// delay window is live; other settings need a restart.
func provideWatcher(p Params, s *store.Store, logger *zap.Logger) (*config.Watcher, error) {
	return config.NewWatcher(p.configPath(), logger.Named("config"), func(cfg *config.Config) {
		s.SetDelay(cfg.ReplyDelay())
	})
}

func provideFrontend(p Params, s *store.Store, b *bus.Bus, logger *zap.Logger) Frontend {
	if p.Plain {
		in, out := p.In, p.Out
		if in == nil {
			in = os.Stdin
		}
		if out == nil {
			out = os.Stdout
		}
		return repl.New(s, b, in, out, logger.Named("repl"))
	}
	return tui.NewApp(model.NewViewModel(s, b), logger.Named("tui"))
}

func registerLifecycle(lc fx.Lifecycle, sd fx.Shutdowner, fe Frontend, s *store.Store, w *config.Watcher, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if err := w.Start(context.Background()); err != nil {
				logger.Warn("config reload disabled", zap.Error(err))
			}

			// The front end owns the terminal; when it exits, so does the app.
			go func() {
				code := 0
				if err := fe.Run(); err != nil {
					logger.Error("front end failed", zap.Error(err))
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					code = 1
				}
				if err := sd.Shutdown(fx.ExitCode(code)); err != nil {
					logger.Warn("shutdown request failed", zap.Error(err))
				}
			}()
			logger.Info("chatdesk started")
			return nil
		},
		OnStop: func(_ context.Context) error {
			fe.Stop()
			w.Stop()
			pending := s.Pending()
			s.Close()
			logger.Info("chatdesk stopped", zap.Int("dropped_replies", pending))
			_ = logger.Sync()
			return nil
		},
	})
}
