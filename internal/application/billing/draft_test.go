package billing_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder/internal/application/billing"
	"github.com/jhoicas/invoice-builder/internal/domain"
	"github.com/jhoicas/invoice-builder/internal/domain/entity"
	"github.com/jhoicas/invoice-builder/internal/domain/invoice"
)

// validDraft borrador completo del escenario INV-1 / Widget x2 @ 10.00 / IVA 10%.
func validDraft() *billing.InvoiceDraft {
	return &billing.InvoiceDraft{
		InvoiceNumber: "INV-1",
		InvoiceDate:   "2025-01-15",
		DueDate:       "2025-02-14",
		FromName:      "Acme Studio",
		FromEmail:     "billing@acme.com",
		FromAddress:   "1 Main St",
		FromCity:      "Springfield",
		FromState:     "IL",
		FromZip:       "62701",
		ToName:        "Globex",
		ToEmail:       "ap@globex.com",
		ToAddress:     "9 Elm Rd",
		ToCity:        "Shelbyville",
		ToState:       "IL",
		ToZip:         "62565",
		Items: []billing.DraftItem{
			{Description: "Widget", Quantity: "2", Rate: "10.00"},
		},
		TaxRate:      "10",
		PaymentTerms: "Net 30",
	}
}

func requireViolations(t *testing.T, err error) *invoice.ValidationError {
	t.Helper()
	var verr *invoice.ValidationError
	require.True(t, errors.As(err, &verr), "se espera ValidationError, llegó %v", err)
	return verr
}

// ──────────────────────────────────────────────────────────────────────────────
// NewDraft
// ──────────────────────────────────────────────────────────────────────────────

func TestNewDraft_ValoresPorDefecto(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	d := billing.NewDraft(now)

	assert.Equal(t, "INV-1736937000000", d.InvoiceNumber)
	assert.Equal(t, "2025-01-15", d.InvoiceDate)
	assert.Equal(t, "2025-02-14", d.DueDate)
	require.Len(t, d.Items, 1)
	assert.Equal(t, billing.NumberInput("1"), d.Items[0].Quantity)
	assert.Equal(t, billing.NumberInput("0"), d.Items[0].Rate)
	assert.Equal(t, billing.NumberInput("0"), d.TaxRate)
	assert.Equal(t, entity.PaymentTermsNet30, d.PaymentTerms)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutaciones y totales en vivo
// ──────────────────────────────────────────────────────────────────────────────

func TestDraft_MutacionesRefrescanAmount(t *testing.T) {
	d := billing.NewDraft(time.Now())

	require.NoError(t, d.SetItemQuantity(0, "3"))
	require.NoError(t, d.SetItemRate(0, "2.50"))
	assert.Equal(t, "7.5", d.Items[0].Amount.String())

	i := d.AddItem()
	require.NoError(t, d.SetItemRate(i, "4"))
	assert.Equal(t, "4", d.Items[i].Amount.String())

	d.SetTaxRate("10")
	got := d.LiveTotals()
	assert.Equal(t, "11.50", got.Subtotal.StringFixed(2))
	assert.Equal(t, "1.15", got.TaxAmount.StringFixed(2))
	assert.Equal(t, "12.65", got.Total.StringFixed(2))

	require.NoError(t, d.RemoveItem(0))
	assert.Equal(t, "4.00", d.LiveTotals().Subtotal.StringFixed(2))
}

func TestDraft_IndiceFueraDeRango(t *testing.T) {
	d := billing.NewDraft(time.Now())

	assert.ErrorIs(t, d.SetItemQuantity(5, "1"), domain.ErrInvalidInput)
	assert.ErrorIs(t, d.SetItemRate(-1, "1"), domain.ErrInvalidInput)
	assert.ErrorIs(t, d.SetItemDescription(1, "x"), domain.ErrInvalidInput)
	assert.ErrorIs(t, d.RemoveItem(1), domain.ErrInvalidInput)
}

// Durante la edición, valores vacíos o no numéricos cuentan como 0.
func TestDraft_LiveTotalsPermisivo(t *testing.T) {
	d := validDraft()
	d.Items = append(d.Items,
		billing.DraftItem{Description: "a medio escribir", Quantity: "", Rate: "abc"},
		billing.DraftItem{Description: "solo cantidad", Quantity: "4", Rate: ""},
	)
	d.TaxRate = ""
	d.Recalculate()

	got := d.LiveTotals()
	assert.Equal(t, "20.00", got.Subtotal.StringFixed(2))
	assert.True(t, got.TaxAmount.IsZero())
	assert.True(t, d.Items[1].Amount.IsZero())
	assert.True(t, d.Items[2].Amount.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Finalize
// ──────────────────────────────────────────────────────────────────────────────

func TestFinalize_EscenarioWidget(t *testing.T) {
	inv, err := validDraft().Finalize()
	require.NoError(t, err)

	assert.Equal(t, "INV-1", inv.InvoiceNumber)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), inv.InvoiceDate)
	assert.Equal(t, "Acme Studio", inv.From.Name)
	assert.Equal(t, "ap@globex.com", inv.To.Email)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "20.00", inv.Items[0].Amount.StringFixed(2))
	assert.Equal(t, "20.00", inv.Subtotal.StringFixed(2))
	assert.Equal(t, "2.00", inv.TaxAmount.StringFixed(2))
	assert.Equal(t, "22.00", inv.Total.StringFixed(2))
}

func TestFinalize_ItemsVacioEsViolacion(t *testing.T) {
	d := validDraft()
	d.Items = nil

	_, err := d.Finalize()
	verr := requireViolations(t, err)
	assert.True(t, verr.Has("items"))
}

func TestFinalize_ReportaFormatoYDominioJuntos(t *testing.T) {
	d := validDraft()
	d.FromName = "   "
	d.ToEmail = "globex"
	d.InvoiceDate = "15/01/2025"
	d.Items[0].Quantity = "dos"
	d.TaxRate = "150"

	_, err := d.Finalize()
	verr := requireViolations(t, err)
	fields := verr.Fields()

	assert.Equal(t, "Business name is required", fields["fromName"])
	assert.Equal(t, "Valid email is required", fields["toEmail"])
	assert.Equal(t, "Invoice date must be a valid date (YYYY-MM-DD)", fields["invoiceDate"])
	assert.Equal(t, "Quantity must be a number", fields["items[0].quantity"])
	assert.Equal(t, "Tax rate must be between 0 and 100", fields["taxRate"])
	assert.Len(t, verr.Violations, 5, "un mensaje por campo: %v", verr.Violations)
}

func TestFinalize_TasaVaciaEsRequerida(t *testing.T) {
	d := validDraft()
	d.TaxRate = ""

	_, err := d.Finalize()
	verr := requireViolations(t, err)
	assert.Equal(t, "Tax rate must be a number", verr.Fields()["taxRate"])
}

func TestNumberInput_LimitesDeMagnitud(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"10.50", true},
		{"1e5", true},
		{"-3", true},
		{"123456789012345678901234567890", true},
		{"1e20000000", false},
		{"1E-2147483647", false},
		{"1234567890123456789012345678901", false},
		{"0.000000000000000000000001", false},
		{"1" + strings.Repeat("0", 60), false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			_, ok := billing.NumberInput(tc.in).Decimal()
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestDraft_ExponenteEnormeCuentaComoCero(t *testing.T) {
	var d billing.InvoiceDraft
	body := `{"taxRate": "1e999999999", "items": [{"description": "A", "quantity": "1e20000000", "rate": "1"}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &d))

	start := time.Now()
	totals := d.LiveTotals()
	assert.Equal(t, "0.00", totals.Total.StringFixed(2))
	assert.Less(t, time.Since(start), time.Second)

	d.Recalculate()
	assert.True(t, d.Items[0].Amount.IsZero())
}

func TestFinalize_ExponenteEnormeNoEsNumero(t *testing.T) {
	d := validDraft()
	d.Items[0].Quantity = "1e20000000"
	d.TaxRate = "1e-30"

	_, err := d.Finalize()
	verr := requireViolations(t, err)
	assert.Equal(t, "Quantity must be a number", verr.Fields()["items[0].quantity"])
	assert.Equal(t, "Tax rate must be a number", verr.Fields()["taxRate"])
}

// Una fecha escrita pero igual al valor cero no se confunde con "sin fecha".
func TestFinalize_FechaCeroEsInvalida(t *testing.T) {
	d := validDraft()
	d.InvoiceDate = "0001-01-01"

	_, err := d.Finalize()
	verr := requireViolations(t, err)
	assert.Equal(t, "Invoice date must be a valid date (YYYY-MM-DD)", verr.Fields()["invoiceDate"])
}

// El registro devuelto no comparte memoria con el borrador.
func TestFinalize_RegistroIndependiente(t *testing.T) {
	d := validDraft()
	inv, err := d.Finalize()
	require.NoError(t, err)

	require.NoError(t, d.SetItemDescription(0, "Gadget"))
	require.NoError(t, d.SetItemQuantity(0, "9"))
	assert.Equal(t, "Widget", inv.Items[0].Description)
	assert.Equal(t, "2", inv.Items[0].Quantity.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// NumberInput JSON
// ──────────────────────────────────────────────────────────────────────────────

func TestNumberInput_JSONAceptaNumeroTextoYNull(t *testing.T) {
	var d billing.InvoiceDraft
	body := `{"taxRate": 7.5, "items": [
		{"description": "A", "quantity": "3", "rate": 2},
		{"description": "B", "quantity": null, "rate": ""}
	]}`
	require.NoError(t, json.Unmarshal([]byte(body), &d))

	assert.Equal(t, billing.NumberInput("7.5"), d.TaxRate)
	assert.Equal(t, billing.NumberInput("3"), d.Items[0].Quantity)
	assert.Equal(t, billing.NumberInput("2"), d.Items[0].Rate)
	assert.Equal(t, billing.NumberInput(""), d.Items[1].Quantity)

	out, err := json.Marshal(map[string]billing.NumberInput{"n": "7.50", "s": "abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n": 7.5, "s": "abc"}`, string(out))
}
