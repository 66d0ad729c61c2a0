// Package render turns an analysis into the HTML shown in the results
// section. Rendering is a direct projection of the document's fields; an
// analysis missing a section is rejected instead of half rendered.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync/atomic"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/BerylCAtieno/niche-analyzer/internal/models"
)

var ErrMissingSection = errors.New("analysis section missing")

// PreviewLength is how many characters of a landing page section are shown.
const PreviewLength = 150

// Charts draws the optional chart widgets. Implementations return ready
// markup (SVG).
type Charts interface {
	Investment(m *models.Metrics) template.HTML
	Competition(c *models.Competition) template.HTML
	Funnel(f *models.Funnel) template.HTML
}

type chartsBox struct {
	charts Charts
}

type Renderer struct {
	tmpl    *template.Template
	printer *message.Printer
	charts  atomic.Pointer[chartsBox]
}

func New() (*Renderer, error) {
	r := &Renderer{
		printer: message.NewPrinter(language.BrazilianPortuguese),
	}
	tmpl, err := template.New("results").Funcs(template.FuncMap{
		"inc":     func(i int) int { return i + 1 },
		"preview": Preview,
		"money":   r.Money,
		"chart":   r.chart,
	}).Parse(resultsTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing results template: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// UseCharts installs the chart capability. Calls made before it render
// without chart slots; passing nil removes it again.
func (r *Renderer) UseCharts(c Charts) {
	if c == nil {
		r.charts.Store(nil)
		return
	}
	r.charts.Store(&chartsBox{charts: c})
}

// ChartsEnabled reports whether a chart capability is installed.
func (r *Renderer) ChartsEnabled() bool {
	return r.charts.Load() != nil
}

type resultsView struct {
	*models.Analysis
	Actions bool
	Charts  bool
}

// RenderResults renders the full results fragment, including the
// download / share / PDF actions.
func (r *Renderer) RenderResults(a *models.Analysis) (template.HTML, error) {
	return r.render(a, true)
}

// RenderShared renders the cards without the session actions, for
// read-only permalinks.
func (r *Renderer) RenderShared(a *models.Analysis) (template.HTML, error) {
	return r.render(a, false)
}

func (r *Renderer) render(a *models.Analysis, actions bool) (template.HTML, error) {
	if err := CheckSections(a); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	view := resultsView{Analysis: a, Actions: actions, Charts: r.ChartsEnabled()}
	if err := r.tmpl.ExecuteTemplate(&buf, "results", view); err != nil {
		return "", fmt.Errorf("executing results template: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// CheckSections fails when any of the six report sections is absent.
func CheckSections(a *models.Analysis) error {
	if missing := a.MissingSections(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSection, strings.Join(missing, ", "))
	}
	return nil
}

// Money formats a number with pt-BR grouping (50000 -> 50.000). Values
// that are not numbers are returned unchanged.
func (r *Renderer) Money(v models.Scalar) string {
	if !v.Numeric {
		return v.String()
	}
	return r.printer.Sprint(number.Decimal(v.Value, number.MaxFractionDigits(2)))
}

// Preview cuts s to PreviewLength characters and appends an ellipsis.
func Preview(s string) string {
	runes := []rune(s)
	if len(runes) > PreviewLength {
		runes = runes[:PreviewLength]
	}
	return string(runes) + "..."
}

func (r *Renderer) chart(kind string, v any) template.HTML {
	box := r.charts.Load()
	if box == nil {
		return ""
	}
	switch kind {
	case "investment":
		if m, ok := v.(*models.Metrics); ok {
			return box.charts.Investment(m)
		}
	case "competition":
		if c, ok := v.(*models.Competition); ok {
			return box.charts.Competition(c)
		}
	case "funnel":
		if f, ok := v.(*models.Funnel); ok {
			return box.charts.Funnel(f)
		}
	}
	return ""
}
