package export

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/BerylCAtieno/niche-analyzer/internal/models"
)

// ErrIncomplete is returned when the analysis lacks a section the artifact
// needs.
var ErrIncomplete = errors.New("analysis is incomplete")

type PrintOptions struct {
	// AutoPrint adds the script that opens the print dialog once loaded.
	AutoPrint bool
}

type printView struct {
	*models.Analysis
	Date      string
	AutoPrint bool
}

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<title>Relatório de Análise - {{.Avatar.Name}}</title>
<style>
  body { font-family: Arial, sans-serif; margin: 20px; color: #333; }
  h1, h2, h3 { color: #ff6b35; }
  .section { margin-bottom: 30px; page-break-inside: avoid; }
  .metric { display: inline-block; margin: 10px; padding: 15px; border: 1px solid #ddd; border-radius: 8px; }
  .competitor { margin: 15px 0; padding: 15px; background: #f9f9f9; border-radius: 8px; }
  @media print { .no-print { display: none; } }
</style>
</head>
<body>
<h1>Relatório de Análise de Avatar</h1>
<p><strong>Data:</strong> {{.Date}}</p>

<div class="section" id="print-avatar">
  <h2>Perfil do Avatar</h2>
  <h3>{{.Avatar.Name}}</h3>
  <p><strong>Contexto:</strong> {{.Avatar.Context}}</p>
  <p><strong>Barreira Crítica:</strong> {{.Avatar.CriticalBarrier}}</p>
  <p><strong>Estado Desejado:</strong> {{.Avatar.DesiredState}}</p>
  <p><strong>Crença Limitante:</strong> {{.Avatar.LimitingBelief}}</p>
</div>

<div class="section" id="print-positioning">
  <h2>Estratégia de Posicionamento</h2>
  <p>{{.Positioning.Statement}}</p>
</div>

<div class="section" id="print-metrics">
  <h2>Métricas Projetadas</h2>
  <div class="metric"><strong>Leads:</strong> {{.Metrics.Leads}}</div>
  <div class="metric"><strong>Conversão:</strong> {{.Metrics.Conversion}}%</div>
  <div class="metric"><strong>Faturamento:</strong> R$ {{.Metrics.Revenue}}</div>
  <div class="metric"><strong>ROI:</strong> {{.Metrics.ROI}}%</div>
</div>

<div class="section" id="print-competition">
  <h2>Análise Competitiva</h2>
  {{range .Competition.Competitors}}
  <div class="competitor">
    <h4>{{.Name}}</h4>
    <p><strong>Preço:</strong> R$ {{.Price}}</p>
    <p><strong>Forças:</strong> {{.Strengths}}</p>
    <p><strong>Fraquezas:</strong> {{.Weaknesses}}</p>
  </div>
  {{end}}
</div>
{{if .AutoPrint}}
<script>window.addEventListener("load", function () { setTimeout(function () { window.focus(); window.print(); }, 500); });</script>
{{end}}
</body>
</html>
`))

// PrintableReport renders the standalone page used for printing and PDF.
func PrintableReport(a *models.Analysis, generatedAt time.Time, opts PrintOptions) (string, error) {
	if a == nil || a.Avatar == nil || a.Positioning == nil || a.Metrics == nil || a.Competition == nil {
		return "", fmt.Errorf("printable report: %w", ErrIncomplete)
	}

	var buf bytes.Buffer
	view := printView{
		Analysis:  a,
		Date:      generatedAt.Format("02/01/2006"),
		AutoPrint: opts.AutoPrint,
	}
	if err := printTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("executing print template: %w", err)
	}
	return buf.String(), nil
}
