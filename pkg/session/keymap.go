package session

import (
	"fmt"

	"github.com/bastiangx/screencomp/pkg/screen"
)

// Action is what a key does to an active session.
type Action int

const (
	Unhandled Action = iota
	Cancel
	Prev
	Next
	PagePrev
	PageNext
	Commit
	Expand
)

var actionNames = map[Action]string{
	Unhandled: "unhandled",
	Cancel:    "cancel",
	Prev:      "prev",
	Next:      "next",
	PagePrev:  "page_prev",
	PageNext:  "page_next",
	Commit:    "commit",
	Expand:    "expand",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Keymap maps key events to actions. Keys not in the map are Unhandled
// and pass through to the terminal.
type Keymap map[screen.KeyEvent]Action

// DefaultKeymap holds the emacs-flavoured bindings.
var DefaultKeymap = Keymap{
	{Key: screen.KeyEscape}: Cancel,

	{Key: screen.KeyUp}:   Prev,
	screen.Ctrl('p'):      Prev,
	screen.Alt('p'):       Prev,
	{Key: screen.KeyDown}: Next,
	screen.Ctrl('n'):      Next,
	screen.Alt('n'):       Next,

	{Key: screen.KeyPageUp}:   PagePrev,
	screen.Ctrl('b'):          PagePrev,
	screen.Alt('v'):           PagePrev,
	{Key: screen.KeyPageDown}: PageNext,
	screen.Ctrl('f'):          PageNext,
	screen.Ctrl('v'):          PageNext,

	{Key: screen.KeySpace}: Commit,
	{Key: screen.KeyEnter}: Commit,

	{Key: screen.KeyTab}: Expand,
}

// Lookup returns the action bound to ev.
func (k Keymap) Lookup(ev screen.KeyEvent) Action {
	return k[ev]
}

// KeymapFromBindings builds a keymap from binding strings per action name,
// as found in the [keys] config section. Actions missing from bindings
// keep their default keys.
func KeymapFromBindings(bindings map[string][]string) (Keymap, error) {
	km := make(Keymap, len(DefaultKeymap))
	overridden := make(map[Action]bool)

	byName := make(map[string]Action, len(actionNames))
	for a, name := range actionNames {
		byName[name] = a
	}

	for name, keys := range bindings {
		action, ok := byName[name]
		if !ok || action == Unhandled {
			return nil, fmt.Errorf("unknown action %q", name)
		}
		if len(keys) == 0 {
			continue
		}
		overridden[action] = true
		for _, k := range keys {
			ev, err := screen.ParseKey(k)
			if err != nil {
				return nil, fmt.Errorf("binding for %s: %w", name, err)
			}
			km[ev] = action
		}
	}

	for ev, action := range DefaultKeymap {
		if overridden[action] {
			continue
		}
		if _, taken := km[ev]; !taken {
			km[ev] = action
		}
	}
	return km, nil
}
