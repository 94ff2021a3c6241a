package utils

import (
	"os"
	"path/filepath"
	"testing"

	"transporterp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTMLBothHalves(t *testing.T) {
	r, err := NewSlipPDFRenderer("")
	require.NoError(t, err)

	html, err := r.RenderHTML(&models.SlipSheet{
		TripCode: "2025_01_001",
		Left: &models.SlipPDFData{
			Title: "Loading Slip", Kind: models.LoadingSlip, Number: "7",
			Counterparty: "Shree Traders", Balance: "9700.00",
			BalanceWords: "Nine Thousand Seven Hundred Rupees Only",
		},
		Right: &models.SlipPDFData{Title: "Pay Slip", Kind: models.PaySlip, Number: "PREVIEW", Counterparty: "Ramesh <Transport>"},
	})
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "No. 7")
	assert.Contains(t, out, "Shree Traders")
	assert.Contains(t, out, "Nine Thousand Seven Hundred Rupees Only")
	assert.Contains(t, out, "No. PREVIEW")
	assert.Contains(t, out, "Motor Owner")
	assert.Contains(t, out, "Ramesh &lt;Transport&gt;")
}

func TestRenderHTMLBlankHalf(t *testing.T) {
	r, err := NewSlipPDFRenderer("")
	require.NoError(t, err)

	html, err := r.RenderHTML(&models.SlipSheet{
		TripCode: "2025_01_001",
		Left:     &models.SlipPDFData{Title: "Pay Slip", Kind: models.PaySlip, Number: "1"},
	})
	require.NoError(t, err)
	assert.Contains(t, string(html), `slip blank`)
}

func TestRendererOverrideTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.html")
	require.NoError(t, os.WriteFile(path, []byte(`<p>{{ .TripCode }}</p>`), 0o644))

	r, err := NewSlipPDFRenderer(path)
	require.NoError(t, err)
	html, err := r.RenderHTML(&models.SlipSheet{TripCode: "2025_02_010"})
	require.NoError(t, err)
	assert.Equal(t, "<p>2025_02_010</p>", string(html))

	_, err = NewSlipPDFRenderer(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}
