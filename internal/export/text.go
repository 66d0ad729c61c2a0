// Package export builds the artifacts a user can take away from an analysis:
// the plain-text report, the printable HTML page, the share payload and,
// when a browser is available, a PDF.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/BerylCAtieno/niche-analyzer/internal/models"
)

// TimestampLayout is the pt-BR date-time layout used in reports.
const TimestampLayout = "02/01/2006, 15:04:05"

// ReportFilename names the text download after the generation instant.
func ReportFilename(t time.Time) string {
	return fmt.Sprintf("analise-avatar-%d.txt", t.UnixMilli())
}

// TextReport renders the plain-text report. Values are written exactly as
// the backend sent them.
func TextReport(a *models.Analysis, generatedAt time.Time) (string, error) {
	if a == nil || a.Avatar == nil || a.Positioning == nil || a.Metrics == nil {
		return "", fmt.Errorf("text report: %w", ErrIncomplete)
	}

	var builder strings.Builder
	builder.WriteString("\nRELATÓRIO DE ANÁLISE DE AVATAR\n")
	builder.WriteString("===============================\n\n")

	builder.WriteString("PERFIL DO AVATAR\n")
	builder.WriteString("----------------\n")
	builder.WriteString(fmt.Sprintf("Nome: %s\n", a.Avatar.Name))
	builder.WriteString(fmt.Sprintf("Contexto: %s\n\n", a.Avatar.Context))
	builder.WriteString(fmt.Sprintf("Barreira Crítica: %s\n", a.Avatar.CriticalBarrier))
	builder.WriteString(fmt.Sprintf("Estado Desejado: %s\n", a.Avatar.DesiredState))
	builder.WriteString(fmt.Sprintf("Crença Limitante: %s\n\n", a.Avatar.LimitingBelief))

	builder.WriteString("ESTRATÉGIA DE POSICIONAMENTO\n")
	builder.WriteString("----------------------------\n")
	builder.WriteString(a.Positioning.Statement + "\n\n")

	builder.WriteString("PROJEÇÕES FINANCEIRAS\n")
	builder.WriteString("---------------------\n")
	builder.WriteString(fmt.Sprintf("Leads Projetados: %s\n", a.Metrics.Leads))
	builder.WriteString(fmt.Sprintf("Taxa de Conversão: %s%%\n", a.Metrics.Conversion))
	builder.WriteString(fmt.Sprintf("Faturamento Projetado: R$ %s\n", a.Metrics.Revenue))
	builder.WriteString(fmt.Sprintf("ROI Esperado: %s%%\n\n", a.Metrics.ROI))

	builder.WriteString(fmt.Sprintf("Gerado em: %s\n", generatedAt.Format(TimestampLayout)))
	return builder.String(), nil
}
