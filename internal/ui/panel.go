package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/cattery/internal/cataas"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldInt
	fieldFloat
	fieldChoice
	fieldToggle
)

// formField is one editable request parameter. Text, number and choice
// fields keep their raw value as a string until the request is built.
type formField struct {
	key     string
	kind    fieldKind
	value   string
	on      bool
	choices []string
}

func (f formField) display() string {
	switch f.kind {
	case fieldToggle:
		if f.on {
			return "[x]"
		}
		return "[ ]"
	case fieldChoice:
		if f.value == "" {
			return "-"
		}
		return f.value
	default:
		return f.value
	}
}

// panelForm is the parameter form on the panel view.
type panelForm struct {
	fields  []formField
	cursor  int
	editing bool
	input   textinput.Model
}

func newPanelForm() panelForm {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Prompt = ""

	return panelForm{
		input: ti,
		fields: []formField{
			{key: "id", kind: fieldText},
			{key: "tags", kind: fieldText},
			{key: "gif", kind: fieldToggle},
			{key: "says", kind: fieldText},
			{key: "type", kind: fieldChoice, choices: choiceNames(cataas.Types)},
			{key: "width", kind: fieldInt},
			{key: "height", kind: fieldInt},
			{key: "fit", kind: fieldChoice, choices: choiceNames(cataas.Fits)},
			{key: "position", kind: fieldChoice, choices: choiceNames(cataas.Positions)},
			{key: "filter", kind: fieldChoice, choices: choiceNames(cataas.Filters)},
			{key: "blur", kind: fieldFloat},
			{key: "r", kind: fieldFloat},
			{key: "g", kind: fieldFloat},
			{key: "b", kind: fieldFloat},
			{key: "brightness", kind: fieldFloat},
			{key: "saturation", kind: fieldFloat},
			{key: "hue", kind: fieldFloat},
			{key: "lightness", kind: fieldFloat},
			{key: "fontSize", kind: fieldInt},
			{key: "fontColor", kind: fieldText},
			{key: "fontBackground", kind: fieldText},
			{key: "html", kind: fieldToggle},
			{key: "json", kind: fieldToggle},
		},
	}
}

func choiceNames[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func (f *panelForm) field(key string) *formField {
	for i := range f.fields {
		if f.fields[i].key == key {
			return &f.fields[i]
		}
	}
	return nil
}

func (f *panelForm) current() *formField {
	if f.cursor < 0 || f.cursor >= len(f.fields) {
		return nil
	}
	return &f.fields[f.cursor]
}

func (f *panelForm) move(delta int) {
	f.cursor += delta
	if f.cursor < 0 {
		f.cursor = 0
	}
	if f.cursor >= len(f.fields) {
		f.cursor = len(f.fields) - 1
	}
}

// activate acts on the field under the cursor: toggles flip, choices advance
// and text or number fields enter edit mode.
func (f *panelForm) activate() tea.Cmd {
	field := f.current()
	if field == nil {
		return nil
	}
	switch field.kind {
	case fieldToggle:
		field.on = !field.on
	case fieldChoice:
		field.value = nextChoice(field.choices, field.value)
	default:
		f.editing = true
		f.input.SetValue(field.value)
		f.input.CursorEnd()
		return f.input.Focus()
	}
	return nil
}

// nextChoice cycles through choices and back to unset.
func nextChoice(choices []string, current string) string {
	if current == "" {
		if len(choices) == 0 {
			return ""
		}
		return choices[0]
	}
	for i, c := range choices {
		if c == current {
			if i+1 < len(choices) {
				return choices[i+1]
			}
			return ""
		}
	}
	return ""
}

func (f *panelForm) commit() {
	if field := f.current(); field != nil && f.editing {
		field.value = strings.TrimSpace(f.input.Value())
	}
	f.editing = false
	f.input.Blur()
}

func (f *panelForm) cancelEdit() {
	f.editing = false
	f.input.Blur()
}

func (f *panelForm) clearCurrent() {
	if field := f.current(); field != nil {
		field.value = ""
		field.on = false
	}
}

// updateInput forwards a key to the text input while editing.
func (f *panelForm) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// syncMode sets the html and json flags to what mode needs.
func (f *panelForm) syncMode(mode cataas.Mode) {
	f.field("html").on = mode == cataas.ModeHTML
	f.field("json").on = mode == cataas.ModeJSON
}

// appendTag adds tag to the tag list unless it is already there.
func (f *panelForm) appendTag(tag string) {
	tags := f.field("tags")
	list := splitList(tags.value)
	for _, t := range list {
		if t == tag {
			return
		}
	}
	tags.value = strings.Join(append(list, tag), ",")
}

// Request builds the cataas request described by the form. Number fields
// that do not parse are reported together.
func (f *panelForm) Request() (cataas.Request, error) {
	var errs []error
	intValue := func(key string) int {
		raw := f.field(key).value
		if raw == "" {
			return 0
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a whole number", key, raw))
		}
		return v
	}
	floatValue := func(key string) float64 {
		raw := f.field(key).value
		if raw == "" {
			return 0
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a number", key, raw))
		}
		return v
	}
	text := func(key string) string { return f.field(key).value }
	on := func(key string) bool { return f.field(key).on }

	req := cataas.Request{
		Path: cataas.PathParams{
			ID:   text("id"),
			Tags: splitList(text("tags")),
			GIF:  on("gif"),
			Text: text("says"),
		},
		Query: cataas.QueryParams{
			Type:           cataas.Type(text("type")),
			Width:          intValue("width"),
			Height:         intValue("height"),
			Fit:            cataas.Fit(text("fit")),
			Position:       cataas.Position(text("position")),
			Filter:         cataas.Filter(text("filter")),
			Blur:           floatValue("blur"),
			R:              floatValue("r"),
			G:              floatValue("g"),
			B:              floatValue("b"),
			Brightness:     floatValue("brightness"),
			Saturation:     floatValue("saturation"),
			Hue:            floatValue("hue"),
			Lightness:      floatValue("lightness"),
			FontSize:       intValue("fontSize"),
			FontColor:      text("fontColor"),
			FontBackground: text("fontBackground"),
			HTML:           on("html"),
			JSON:           on("json"),
		},
	}
	if len(errs) > 0 {
		return cataas.Request{}, errors.Join(errs...)
	}
	return req, nil
}

// setRequest loads req into the form, replacing every field.
func (f *panelForm) setRequest(req cataas.Request) {
	formatInt := func(v int) string {
		if v == 0 {
			return ""
		}
		return strconv.Itoa(v)
	}
	formatFloat := func(v float64) string {
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	set := func(key, value string) { f.field(key).value = value }
	toggle := func(key string, on bool) { f.field(key).on = on }

	p, q := req.Path, req.Query
	set("id", p.ID)
	set("tags", strings.Join(p.Tags, ","))
	toggle("gif", p.GIF)
	set("says", p.Text)
	set("type", string(q.Type))
	set("width", formatInt(q.Width))
	set("height", formatInt(q.Height))
	set("fit", string(q.Fit))
	set("position", string(q.Position))
	set("filter", string(q.Filter))
	set("blur", formatFloat(q.Blur))
	set("r", formatFloat(q.R))
	set("g", formatFloat(q.G))
	set("b", formatFloat(q.B))
	set("brightness", formatFloat(q.Brightness))
	set("saturation", formatFloat(q.Saturation))
	set("hue", formatFloat(q.Hue))
	set("lightness", formatFloat(q.Lightness))
	set("fontSize", formatInt(q.FontSize))
	set("fontColor", q.FontColor)
	set("fontBackground", q.FontBackground)
	toggle("html", q.HTML)
	toggle("json", q.JSON)
}

// render draws the form rows. The focused row is highlighted.
func (f panelForm) render(styles Styles, bg BgStyle, width int) string {
	var b strings.Builder
	labelWidth := 16
	valueWidth := width - labelWidth - 4
	for i, field := range f.fields {
		label := padRight(field.key, labelWidth)
		value := truncate(field.display(), valueWidth)
		if i == f.cursor && f.editing {
			value = f.input.View()
		}

		var line string
		if i == f.cursor {
			line = bg.Render("> ", styles.AccentText) +
				bg.Render(label, styles.AccentText.Bold(true)) +
				bg.Render(value, styles.Text)
		} else {
			valueStyle := styles.Text
			if field.value == "" && !field.on {
				valueStyle = styles.FaintText
			}
			line = bg.Spaces(2) + bg.Render(label, styles.MutedText) + bg.Render(value, valueStyle)
		}
		b.WriteString(bg.FillLine(line, width))
		if i < len(f.fields)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
