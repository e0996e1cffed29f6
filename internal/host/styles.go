package host

import (
	"io"
	"os"

	"github.com/bastiangx/screencomp/pkg/config"
	"github.com/bastiangx/screencomp/pkg/screen"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles maps surface styles to lipgloss styles.
type Styles struct {
	Text     lipgloss.Style
	Normal   lipgloss.Style
	Selected lipgloss.Style
	Status   lipgloss.Style
	Cursor   lipgloss.Style
}

// ColorProfile picks the profile for w, honoring NO_COLOR.
func ColorProfile(w io.Writer) termenv.Profile {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

// NewStyles builds the overlay styles from config colors.
func NewStyles(cfg config.OverlayConfig, w io.Writer, profile termenv.Profile) Styles {
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	return Styles{
		Text: r.NewStyle(),
		Normal: r.NewStyle().
			Foreground(colorOf(cfg.NormalFg)).
			Background(colorOf(cfg.NormalBg)),
		Selected: r.NewStyle().Bold(true).
			Foreground(colorOf(cfg.SelectedFg)).
			Background(colorOf(cfg.SelectedBg)),
		Status: r.NewStyle().Italic(true).
			Foreground(colorOf(cfg.StatusFg)).
			Background(colorOf(cfg.StatusBg)),
		Cursor: r.NewStyle().Reverse(true),
	}
}

func (s Styles) of(style screen.Style) lipgloss.Style {
	switch style {
	case screen.StyleNormal:
		return s.Normal
	case screen.StyleSelected:
		return s.Selected
	case screen.StyleStatus:
		return s.Status
	default:
		return s.Text
	}
}
