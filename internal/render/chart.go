package render

import (
	"fmt"
	"html"
	"html/template"
	"math"
	"strings"

	"github.com/BerylCAtieno/niche-analyzer/internal/models"
)

// Palette is cycled through by every chart.
var Palette = []string{"#ff6b35", "#f7931e", "#ff4757", "#3742fa", "#2ed573"}

// FunnelVolumes are the illustrative stage volumes plotted against the
// funnel phases. The backend sends no volumes.
var FunnelVolumes = []float64{2500, 1500, 600, 150, 38}

type ChartConfig struct {
	Width     int
	Height    int
	BgColor   string
	GridColor string
	TextColor string
	FontSize  int
}

func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:     400,
		Height:    220,
		BgColor:   "transparent",
		GridColor: "#334155",
		TextColor: "#e2e8f0",
		FontSize:  11,
	}
}

// SVGCharts renders the chart widgets as inline SVG.
type SVGCharts struct {
	cfg ChartConfig
}

func NewSVGCharts(cfg ChartConfig) *SVGCharts {
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	return &SVGCharts{cfg: cfg}
}

// Investment draws a doughnut of the investment amount per channel.
func (s *SVGCharts) Investment(m *models.Metrics) template.HTML {
	if m == nil {
		return ""
	}
	type slice struct {
		label string
		value float64
		pct   string
	}
	var (
		slices []slice
		total  float64
	)
	for _, item := range m.Investment {
		if !item.Amount.Numeric || item.Amount.Value <= 0 {
			continue
		}
		v := item.Amount.Value
		slices = append(slices, slice{label: item.Channel, value: v, pct: item.Percentage.String()})
		total += v
	}
	if total == 0 {
		return s.empty("Sem dados de investimento")
	}

	cfg := s.cfg
	cx := float64(cfg.Height) / 2
	cy := float64(cfg.Height) / 2
	outer := float64(cfg.Height)/2 - 10
	inner := outer * 0.6

	var sb strings.Builder
	sb.WriteString(s.header("investmentChart"))
	angle := -math.Pi / 2
	for i, sl := range slices {
		color := Palette[i%len(Palette)]
		sweep := sl.value / total * 2 * math.Pi
		title := fmt.Sprintf("%s: R$ %s (%s%%)", sl.label, formatFloat(sl.value), sl.pct)
		if len(slices) == 1 {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="%.2f"><title>%s</title></circle>`,
				cx, cy, (outer+inner)/2, color, outer-inner, html.EscapeString(title)))
		} else {
			sb.WriteString(fmt.Sprintf(`<path d="%s" fill="%s"><title>%s</title></path>`,
				arcPath(cx, cy, outer, inner, angle, angle+sweep), color, html.EscapeString(title)))
		}
		angle += sweep

		ly := 20 + i*18
		lx := int(cx*2) + 10
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="10" height="10" fill="%s"/>`, lx, ly-9, color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s">%s</text>`,
			lx+15, ly, cfg.FontSize, cfg.TextColor, html.EscapeString(sl.label)))
	}
	sb.WriteString("</svg>")
	return template.HTML(sb.String())
}

// Competition draws one vertical bar per competitor with a numeric price.
func (s *SVGCharts) Competition(c *models.Competition) template.HTML {
	if c == nil {
		return ""
	}
	var items []barItem
	for _, comp := range c.Competitors {
		if !comp.Price.Numeric {
			continue
		}
		items = append(items, barItem{label: comp.Name, value: comp.Price.Value})
	}
	if len(items) == 0 {
		return s.empty("Sem preços numéricos")
	}

	cfg := s.cfg
	left, right, top, bottom := 50, 10, 20, 40
	pw := cfg.Width - left - right
	ph := cfg.Height - top - bottom
	maxVal := maxValue(items)

	var sb strings.Builder
	sb.WriteString(s.header("competitionChart"))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="14" font-size="%d" fill="%s">Preço (R$)</text>`, left, cfg.FontSize, cfg.TextColor))
	sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s"/>`, left, top+ph, left+pw, top+ph, cfg.GridColor))

	slot := float64(pw) / float64(len(items))
	barW := slot * 0.6
	for i, item := range items {
		h := item.value / maxVal * float64(ph)
		x := float64(left) + float64(i)*slot + (slot-barW)/2
		y := float64(top+ph) - h
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#ff6b35" stroke="#f7931e" stroke-width="2" rx="4"><title>%s: R$ %s</title></rect>`,
			x, y, barW, h, html.EscapeString(item.label), formatFloat(item.value)))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			x+barW/2, top+ph+15, cfg.FontSize, cfg.TextColor, html.EscapeString(item.label)))
	}
	sb.WriteString("</svg>")
	return template.HTML(sb.String())
}

// Funnel draws horizontal bars, one per phase, sized by FunnelVolumes.
func (s *SVGCharts) Funnel(f *models.Funnel) template.HTML {
	if f == nil || len(f.Phases) == 0 {
		return s.empty("Sem fases")
	}
	n := len(f.Phases)
	if n > len(FunnelVolumes) {
		n = len(FunnelVolumes)
	}
	items := make([]barItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, barItem{label: f.Phases[i].Name, value: FunnelVolumes[i], color: Palette[i%len(Palette)]})
	}

	cfg := s.cfg
	left, right, top, bottom := 110, 40, 10, 10
	pw := cfg.Width - left - right
	ph := cfg.Height - top - bottom
	maxVal := maxValue(items)

	barH := float64(ph) / float64(len(items)) * 0.7
	gap := (float64(ph) - barH*float64(len(items))) / float64(len(items)+1)

	var sb strings.Builder
	sb.WriteString(s.header("funnelChart"))
	for i, item := range items {
		y := float64(top) + gap + float64(i)*(barH+gap)
		w := item.value / maxVal * float64(pw)
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="4"/>`,
			left, y, w, barH, item.color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			left-5, y+barH/2+4, cfg.FontSize, cfg.TextColor, html.EscapeString(item.label)))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s">%s</text>`,
			float64(left)+w+5, y+barH/2+4, cfg.FontSize, cfg.TextColor, formatFloat(item.value)))
	}
	sb.WriteString("</svg>")
	return template.HTML(sb.String())
}

type barItem struct {
	label string
	value float64
	color string
}

func maxValue(items []barItem) float64 {
	m := 0.0
	for _, it := range items {
		if it.value > m {
			m = it.value
		}
	}
	if m == 0 {
		return 1
	}
	return m
}

func (s *SVGCharts) header(id string) string {
	return fmt.Sprintf(`<svg id="%s" xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" role="img">`,
		id, s.cfg.Width, s.cfg.Height, s.cfg.Width, s.cfg.Height)
}

func (s *SVGCharts) empty(msg string) template.HTML {
	return template.HTML(fmt.Sprintf(`%s<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text></svg>`,
		s.header("emptyChart"), s.cfg.Width/2, s.cfg.Height/2, s.cfg.FontSize, s.cfg.TextColor, html.EscapeString(msg)))
}

// arcPath is a doughnut slice between two angles (radians, clockwise).
func arcPath(cx, cy, outer, inner, start, end float64) string {
	large := 0
	if end-start > math.Pi {
		large = 1
	}
	x1, y1 := cx+outer*math.Cos(start), cy+outer*math.Sin(start)
	x2, y2 := cx+outer*math.Cos(end), cy+outer*math.Sin(end)
	x3, y3 := cx+inner*math.Cos(end), cy+inner*math.Sin(end)
	x4, y4 := cx+inner*math.Cos(start), cy+inner*math.Sin(start)
	return fmt.Sprintf("M%.2f %.2f A%.2f %.2f 0 %d 1 %.2f %.2f L%.2f %.2f A%.2f %.2f 0 %d 0 %.2f %.2f Z",
		x1, y1, outer, outer, large, x2, y2, x3, y3, inner, inner, large, x4, y4)
}

func formatFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
