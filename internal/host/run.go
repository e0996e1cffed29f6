package host

import (
	"context"
	"fmt"
	"os"

	"github.com/bastiangx/screencomp/pkg/config"
	"github.com/bastiangx/screencomp/pkg/screen"
	"github.com/bastiangx/screencomp/pkg/session"
	"github.com/bastiangx/screencomp/pkg/suggest"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Prompt starts every input row of the host.
const Prompt = "$ "

// Options configure Run.
type Options struct {
	Config     *config.Config
	ConfigPath string
	Seed       string
	// InputTTY reads keys from the controlling terminal, for when stdin
	// carried the seed text.
	InputTTY bool
	Logger   *log.Logger
}

// Run starts the interactive host and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	km, err := session.KeymapFromBindings(cfg.Keys.Bindings())
	if err != nil {
		return fmt.Errorf("keys: %w", err)
	}

	mem := screen.NewMemory(24, 80, Prompt, cfg.Engine.ScrollbackLines)
	mem.LoadText(opts.Seed)

	sess := session.New(mem, suggest.NewBuilder(cfg.Engine.URLTokens), session.Options{
		Scrollback: cfg.Engine.Scrollback,
		MinPrefix:  cfg.Engine.MinPrefix,
		Keymap:     km,
		Logger:     logger,
	})

	styles := NewStyles(cfg.Overlay, os.Stdout, ColorProfile(os.Stdout))
	model := NewModel(mem, sess, NewKeyMap(cfg.Keys.Activate, cfg.Keys.Quit), styles, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opts.InputTTY {
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	p := tea.NewProgram(model, progOpts...)

	if opts.ConfigPath != "" {
		go func() {
			err := config.Watch(ctx, opts.ConfigPath, func(c *config.Config) {
				p.Send(ConfigMsg{Config: c})
			})
			if err != nil {
				logger.Warn("config watch stopped", "err", err)
			}
		}()
	}

	logger.Info("host started", "seed_bytes", len(opts.Seed))
	_, err = p.Run()
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func colorOf(s string) lipgloss.TerminalColor {
	if s == "" {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(s)
}
