// Package presenter renders the booking widget's single status region.
package presenter

import (
	"bytes"
	"fmt"
	"html/template"
)

// Kind is the display state of the region. It doubles as the CSS state class.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Valid reports whether k is one of the known display states.
func (k Kind) Valid() bool {
	switch k {
	case KindInfo, KindSuccess, KindWarning, KindError:
		return true
	}
	return false
}

// Icon returns the glyph shown next to the title for a kind.
func (k Kind) Icon() string {
	switch k {
	case KindSuccess:
		return "✔"
	case KindWarning:
		return "⚠"
	case KindError:
		return "✖"
	default:
		return "ℹ"
	}
}

// View is the full content of the region. Each Present call replaces it.
type View struct {
	Kind    Kind     `json:"kind"`
	Icon    string   `json:"icon"`
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Slots   []string `json:"slots,omitempty"`
	Loading bool     `json:"loading,omitempty"`
}

// Present builds a View for kind. Unknown kinds render as info.
func Present(kind Kind, title, message string) View {
	if !kind.Valid() {
		kind = KindInfo
	}
	return View{
		Kind:    kind,
		Icon:    kind.Icon(),
		Title:   title,
		Message: message,
	}
}

// WithSlots returns a copy of v listing the given time slots.
func (v View) WithSlots(slots []string) View {
	v.Slots = append([]string(nil), slots...)
	return v
}

// Loading is the view shown while an availability lookup is in flight.
func Loading(title, message string) View {
	v := Present(KindInfo, title, message)
	v.Loading = true
	return v
}

var regionTemplate = template.Must(template.New("region").Parse(
	`<div class="agenda-result agenda-result--{{.Kind}}{{if .Loading}} agenda-result--loading{{end}}">` +
		`<span class="agenda-result__icon">{{.Icon}}</span>` +
		`<h4 class="agenda-result__title">{{.Title}}</h4>` +
		`<p class="agenda-result__message">{{.Message}}</p>` +
		`{{if .Slots}}<ul class="agenda-result__slots">{{range .Slots}}<li>{{.}}</li>{{end}}</ul>{{end}}` +
		`</div>`))

// Render produces the HTML fragment for v. All text is escaped.
func Render(v View) (string, error) {
	if !v.Kind.Valid() {
		v.Kind = KindInfo
	}
	if v.Icon == "" {
		v.Icon = v.Kind.Icon()
	}
	var buf bytes.Buffer
	if err := regionTemplate.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("presenter: render: %w", err)
	}
	return buf.String(), nil
}
