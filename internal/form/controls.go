package form

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/prefpane/internal/settings/schema"
)

// Control is one interactive widget bound to a schema key.
type Control interface {
	// Key returns the schema key the control edits.
	Key() string

	// Label returns the display label.
	Label() string

	// Value returns the control's current edited value.
	Value() string

	// SetValue replaces the control's value without firing OnChange.
	SetValue(v string)

	// HandleKey processes a key event; it reports whether the event was
	// consumed.
	HandleKey(ev *tcell.EventKey) bool

	// Draw renders the control's value area.
	Draw(screen tcell.Screen, x, y, width int, focused bool)
}

// builder constructs a control for one schema item.
type builder func(key string, it *schema.Item, initial string) Control

// builders is the per-control-type dispatch table. It lives here, in the
// renderer, so the settings core never depends on widget construction.
var builders = map[schema.ControlType]builder{
	schema.ControlEdit:       newEdit,
	schema.ControlNumber:     newNumber,
	schema.ControlCheckbox:   newCheckbox,
	schema.ControlDropdown:   newDropdown,
	schema.ControlFilePath:   newPath,
	schema.ControlFolderPath: newPath,
}

// base carries what every control shares.
type base struct {
	key      string
	label    string
	onChange schema.Observer
}

func newBase(key string, it *schema.Item) base {
	label := it.Label.Resolve()
	if label == "" {
		label = it.Name.Resolve()
	}
	if label == "" {
		label = key
	}
	return base{key: key, label: label, onChange: it.OnChange}
}

func (b *base) Key() string   { return b.key }
func (b *base) Label() string { return b.label }

// changed fires the item's OnChange observer, if any.
func (b *base) changed(v string) {
	if b.onChange != nil {
		b.onChange(v)
	}
}

// edit is a free-form text input. It also backs the file and folder path
// controls; native pick dialogs are out of scope, so paths are typed.
type edit struct {
	base
	text   []rune
	cursor int
	hint   string
}

func newEdit(key string, it *schema.Item, initial string) Control {
	return &edit{
		base:   newBase(key, it),
		text:   []rune(initial),
		cursor: len(initial),
	}
}

func newPath(key string, it *schema.Item, initial string) Control {
	e := newEdit(key, it, initial).(*edit)
	e.hint = " (path)"
	return e
}

func (e *edit) Value() string { return string(e.text) }

func (e *edit) SetValue(v string) {
	e.text = []rune(v)
	e.cursor = len(e.text)
}

func (e *edit) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyRune:
		e.text = append(e.text[:e.cursor], append([]rune{ev.Rune()}, e.text[e.cursor:]...)...)
		e.cursor++
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if e.cursor == 0 {
			return true
		}
		e.text = append(e.text[:e.cursor-1], e.text[e.cursor:]...)
		e.cursor--
	case tcell.KeyDelete:
		if e.cursor >= len(e.text) {
			return true
		}
		e.text = append(e.text[:e.cursor], e.text[e.cursor+1:]...)
	case tcell.KeyLeft:
		if e.cursor > 0 {
			e.cursor--
		}
		return true
	case tcell.KeyRight:
		if e.cursor < len(e.text) {
			e.cursor++
		}
		return true
	case tcell.KeyHome:
		e.cursor = 0
		return true
	case tcell.KeyEnd:
		e.cursor = len(e.text)
		return true
	default:
		return false
	}
	e.changed(e.Value())
	return true
}

func (e *edit) Draw(screen tcell.Screen, x, y, width int, focused bool) {
	style := valueStyle(focused)
	drawText(screen, x, y, width, string(e.text)+e.hint, style)
	if focused {
		cx := x + e.cursor
		if cx >= x+width {
			cx = x + width - 1
		}
		screen.ShowCursor(cx, y)
	}
}

// number is an edit restricted to a numeric value.
type number struct {
	edit
}

func newNumber(key string, it *schema.Item, initial string) Control {
	return &number{edit: *newEdit(key, it, initial).(*edit)}
}

func (n *number) HandleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		digit := r >= '0' && r <= '9'
		sign := (r == '-' || r == '+') && n.cursor == 0 && !strings.ContainsAny(string(n.text), "+-")
		dot := r == '.' && !strings.ContainsRune(string(n.text), '.')
		if !digit && !sign && !dot {
			return true // swallow non-numeric input
		}
	}
	return n.edit.HandleKey(ev)
}

// checkbox is a boolean toggle persisted as "1"/"0".
type checkbox struct {
	base
	checked bool
}

func newCheckbox(key string, it *schema.Item, initial string) Control {
	return &checkbox{
		base:    newBase(key, it),
		checked: truthy(initial),
	}
}

func (c *checkbox) Value() string {
	if c.checked {
		return "1"
	}
	return "0"
}

func (c *checkbox) SetValue(v string) { c.checked = truthy(v) }

func (c *checkbox) HandleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyRune && ev.Rune() == ' ' || ev.Key() == tcell.KeyEnter {
		c.checked = !c.checked
		c.changed(c.Value())
		return true
	}
	return false
}

func (c *checkbox) Draw(screen tcell.Screen, x, y, width int, focused bool) {
	mark := "[ ]"
	if c.checked {
		mark = "[x]"
	}
	drawText(screen, x, y, width, mark, valueStyle(focused))
	if focused {
		screen.HideCursor()
	}
}

// truthy interprets the store's boolean encodings.
func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// dropdown cycles through the item's declared choices. Choices are
// resolved once at build time; rebuild the form to pick up computed
// changes.
type dropdown struct {
	base
	choices []string
	index   int
}

func newDropdown(key string, it *schema.Item, initial string) Control {
	d := &dropdown{
		base:    newBase(key, it),
		choices: it.Dropdown.Resolve(),
	}
	d.SetValue(initial)
	return d
}

func (d *dropdown) Value() string {
	if len(d.choices) == 0 {
		return ""
	}
	return d.choices[d.index]
}

func (d *dropdown) SetValue(v string) {
	for i, choice := range d.choices {
		if choice == v {
			d.index = i
			return
		}
	}
	d.index = 0
}

func (d *dropdown) HandleKey(ev *tcell.EventKey) bool {
	if len(d.choices) == 0 {
		return false
	}
	switch {
	case ev.Key() == tcell.KeyRune && ev.Rune() == ' ', ev.Key() == tcell.KeyRight:
		d.index = (d.index + 1) % len(d.choices)
	case ev.Key() == tcell.KeyLeft:
		d.index = (d.index - 1 + len(d.choices)) % len(d.choices)
	default:
		return false
	}
	d.changed(d.Value())
	return true
}

func (d *dropdown) Draw(screen tcell.Screen, x, y, width int, focused bool) {
	drawText(screen, x, y, width, "< "+d.Value()+" >", valueStyle(focused))
	if focused {
		screen.HideCursor()
	}
}

// valueStyle returns the style for a control's value area.
func valueStyle(focused bool) tcell.Style {
	style := tcell.StyleDefault
	if focused {
		return style.Reverse(true)
	}
	return style
}

// drawText renders a clipped, padded line of text.
func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	runes := []rune(text)
	for i := 0; i < width; i++ {
		r := ' '
		if i < len(runes) {
			r = runes[i]
		}
		screen.SetContent(x+i, y, r, nil, style)
	}
}
