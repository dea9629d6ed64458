// Package form renders an interactive settings dialog from a schema.
//
// The form is the rendering collaborator of the settings engine: it
// enumerates the manager's schema to build one tab per section and one
// control per visible item, and funnels edits back through Manager.Set.
// All per-type widget construction lives here, in a dispatch table the
// form owns; the settings core knows nothing about widgets.
package form

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/prefpane/internal/settings"
)

// Form is an interactive settings dialog over a Manager.
type Form struct {
	mgr    *settings.Manager
	screen tcell.Screen

	title    string
	sections []string
	tabs     map[string][]Control

	activeTab int
	focus     int
	status    string
	quit      bool
}

// Option configures a Form.
type Option func(*Form)

// WithTitle sets the dialog title.
func WithTitle(title string) Option {
	return func(f *Form) { f.title = title }
}

// WithScreen supplies a screen, used by tests with a simulation screen.
func WithScreen(screen tcell.Screen) Option {
	return func(f *Form) { f.screen = screen }
}

// New builds a form from the manager's schema. Every visible item in
// every section gets a control seeded with its current Get value; Get
// failures surface immediately.
func New(mgr *settings.Manager, opts ...Option) (*Form, error) {
	f := &Form{
		mgr:   mgr,
		title: "Settings",
		tabs:  make(map[string][]Control),
	}
	if t := mgr.Options()["title"]; t != "" {
		f.title = t
	}
	for _, opt := range opts {
		opt(f)
	}

	if err := f.build(); err != nil {
		return nil, err
	}
	return f, nil
}

// build enumerates the schema into tabs and controls.
func (f *Form) build() error {
	sch := f.mgr.Schema()

	for _, section := range sch.Sections() {
		var controls []Control
		for _, key := range sch.SectionKeys(section) {
			it, ok := sch.Get(key)
			if !ok {
				continue
			}
			if !it.Visible.Resolve() {
				continue
			}

			build, ok := builders[it.Type]
			if !ok {
				return fmt.Errorf("no builder for control type %s", it.Type)
			}

			initial, err := f.mgr.Get(key)
			if err != nil {
				return err
			}
			controls = append(controls, build(key, it, initial))
		}
		if len(controls) > 0 {
			f.sections = append(f.sections, section)
			f.tabs[section] = controls
		}
	}
	return nil
}

// Sections returns the tab labels in display order.
func (f *Form) Sections() []string {
	out := make([]string, len(f.sections))
	copy(out, f.sections)
	return out
}

// Controls returns the controls of one section tab.
func (f *Form) Controls(section string) []Control {
	return f.tabs[section]
}

// Save persists every control through the manager. Failures are per-key:
// a failing key does not stop the remaining saves, and earlier keys stay
// persisted. All failures are returned together.
func (f *Form) Save() []error {
	var errs []error
	for _, section := range f.sections {
		for _, ctl := range f.tabs[section] {
			if err := f.mgr.Set(ctl.Key(), ctl.Value()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}

// Run initializes the screen and processes events until the user quits.
func (f *Form) Run() error {
	if f.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		f.screen = screen
	}
	if err := f.screen.Init(); err != nil {
		return err
	}
	defer f.screen.Fini()

	for !f.quit {
		f.draw()
		ev := f.screen.PollEvent()
		if ev == nil {
			return nil
		}
		f.handleEvent(ev)
	}
	return nil
}

// handleEvent dispatches one terminal event.
func (f *Form) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		f.screen.Sync()
	case *tcell.EventKey:
		f.handleKey(ev)
	}
}

// handleKey implements the dialog key bindings: Tab cycles section tabs,
// Up/Down moves focus, Ctrl+S saves, Esc or Ctrl+C quits. Anything else
// goes to the focused control.
func (f *Form) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		f.quit = true
		return
	case tcell.KeyCtrlS:
		if errs := f.Save(); len(errs) > 0 {
			f.status = fmt.Sprintf("save failed for %d setting(s): %v", len(errs), errs[0])
		} else {
			f.status = "saved"
		}
		return
	case tcell.KeyTab:
		if len(f.sections) > 0 {
			f.activeTab = (f.activeTab + 1) % len(f.sections)
			f.focus = 0
		}
		return
	case tcell.KeyBacktab:
		if len(f.sections) > 0 {
			f.activeTab = (f.activeTab - 1 + len(f.sections)) % len(f.sections)
			f.focus = 0
		}
		return
	case tcell.KeyDown:
		if n := len(f.activeControls()); n > 0 {
			f.focus = (f.focus + 1) % n
		}
		return
	case tcell.KeyUp:
		if n := len(f.activeControls()); n > 0 {
			f.focus = (f.focus - 1 + n) % n
		}
		return
	}

	controls := f.activeControls()
	if f.focus < len(controls) {
		controls[f.focus].HandleKey(ev)
	}
}

// activeControls returns the controls of the active tab.
func (f *Form) activeControls() []Control {
	if f.activeTab >= len(f.sections) {
		return nil
	}
	return f.tabs[f.sections[f.activeTab]]
}

// draw renders the whole dialog.
func (f *Form) draw() {
	f.screen.Clear()
	width, height := f.screen.Size()

	// Title
	drawText(f.screen, 0, 0, width, f.title, tcell.StyleDefault.Bold(true))

	// Section tabs
	x := 0
	for i, section := range f.sections {
		label := " " + section + " "
		style := tcell.StyleDefault
		if i == f.activeTab {
			style = style.Reverse(true)
		}
		drawText(f.screen, x, 1, len([]rune(label)), label, style)
		x += len([]rune(label)) + 1
	}

	// Controls
	controls := f.activeControls()
	labelWidth := 0
	for _, ctl := range controls {
		if n := len([]rune(ctl.Label())); n > labelWidth {
			labelWidth = n
		}
	}

	row := 3
	for i, ctl := range controls {
		if row >= height-1 {
			break
		}
		drawText(f.screen, 0, row, labelWidth, ctl.Label(), tcell.StyleDefault)
		ctl.Draw(f.screen, labelWidth+2, row, width-labelWidth-2, i == f.focus)
		row++
	}

	// Status line
	if height > 0 {
		drawText(f.screen, 0, height-1, width,
			f.status+"  (Ctrl+S save, Tab switch section, Esc quit)",
			tcell.StyleDefault.Dim(true))
	}

	f.screen.Show()
}
