package utils

import (
	"bytes"
	"context"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"transporterp/models"
	"transporterp/templates"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// SlipPDFRenderer prints a two-slip landscape sheet through headless Chrome.
type SlipPDFRenderer struct {
	tmpl *template.Template
}

// NewSlipPDFRenderer loads the embedded slip template, or the file at
// overridePath when one is given.
func NewSlipPDFRenderer(overridePath string) (*SlipPDFRenderer, error) {
	var (
		tmpl *template.Template
		err  error
	)
	if overridePath != "" {
		tmpl, err = template.ParseFiles(overridePath)
	} else {
		tmpl, err = template.ParseFS(templates.FS, templates.SlipTemplate)
	}
	if err != nil {
		return nil, err
	}
	return &SlipPDFRenderer{tmpl: tmpl}, nil
}

// RenderHTML executes the template for the sheet.
func (r *SlipPDFRenderer) RenderHTML(sheet *models.SlipSheet) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, sheet); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *SlipPDFRenderer) RenderSlips(ctx context.Context, sheet *models.SlipSheet) ([]byte, error) {
	html, err := r.RenderHTML(sheet)
	if err != nil {
		return nil, err
	}

	// Create temp HTML file
	tmpHTML := filepath.Join(os.TempDir(), "slip_"+sheet.TripCode+"_"+strconv.FormatInt(time.Now().UnixNano(), 10)+".html")
	if err := os.WriteFile(tmpHTML, html, 0644); err != nil {
		return nil, err
	}
	defer os.Remove(tmpHTML)

	// Generate PDF with headless Chrome
	cctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuf []byte
	err = chromedp.Run(cctx,
		chromedp.Navigate("file://"+tmpHTML),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithLandscape(true).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}
