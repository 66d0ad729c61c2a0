package session

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BerylCAtieno/niche-analyzer/internal/export"
	"github.com/BerylCAtieno/niche-analyzer/internal/models"
	"github.com/BerylCAtieno/niche-analyzer/internal/notify"
)

const (
	msgNoDownload   = "Nenhuma análise disponível para download."
	msgNoExport     = "Nenhuma análise disponível para exportar."
	msgNoShare      = "Nenhuma análise disponível para compartilhar."
	msgDownloaded   = "Relatório baixado com sucesso!"
	msgPrintReady   = "Relatório preparado para impressão/PDF!"
	msgLinkCopied   = "Link copiado para a área de transferência!"
	msgReportFailed = "Erro ao gerar relatório."
	msgShareFailed  = "Erro ao compartilhar análise."
)

// Download is a file handed to the browser.
type Download struct {
	Filename string
	Body     string
}

// DownloadReport builds the text report of the current analysis.
func (c *Controller) DownloadReport(now time.Time) (Download, error) {
	a, _ := c.Analysis()
	if a == nil {
		c.Notify(notify.Error, msgNoDownload)
		return Download{}, ErrNoAnalysis
	}
	body, err := export.TextReport(a, now)
	if err != nil {
		c.Notify(notify.Error, msgReportFailed)
		return Download{}, err
	}
	c.Notify(notify.Success, msgDownloaded)
	return Download{Filename: export.ReportFilename(now), Body: body}, nil
}

// PrintReport builds the printable page of the current analysis.
func (c *Controller) PrintReport(now time.Time, autoPrint bool) (string, error) {
	a, _ := c.Analysis()
	if a == nil {
		c.Notify(notify.Error, msgNoExport)
		return "", ErrNoAnalysis
	}
	page, err := export.PrintableReport(a, now, export.PrintOptions{AutoPrint: autoPrint})
	if err != nil {
		c.Notify(notify.Error, msgReportFailed)
		return "", err
	}
	c.Notify(notify.Success, msgPrintReady)
	return page, nil
}

// LinkFunc returns the URL to share for an analysis.
type LinkFunc func(a *models.Analysis, niche string) (string, error)

// Share prepares the share payload. In clipboard mode the browser copies
// the URL, so the success notification is pushed here.
func (c *Controller) Share(nativeSupported bool, link LinkFunc) (export.ShareAction, error) {
	a, niche := c.Analysis()
	if a == nil {
		c.Notify(notify.Error, msgNoShare)
		return export.ShareAction{}, ErrNoAnalysis
	}
	url, err := link(a, niche)
	if err != nil {
		c.logger.Error("building share link failed", zap.Error(err))
		c.Notify(notify.Error, msgShareFailed)
		return export.ShareAction{}, fmt.Errorf("share link: %w", err)
	}
	action := export.NewShareAction(url, nativeSupported)
	if action.Mode == export.ShareClipboard {
		c.Notify(notify.Success, msgLinkCopied)
	}
	return action, nil
}
