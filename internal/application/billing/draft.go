package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-builder/internal/domain"
	"github.com/jhoicas/invoice-builder/internal/domain/entity"
	"github.com/jhoicas/invoice-builder/internal/domain/invoice"
)

// DefaultDueDays días entre la fecha de factura y el vencimiento sugerido.
const DefaultDueDays = 30

// NumberInput valor numérico tal como llega del formulario: número JSON, texto o null.
// Un valor vacío o no numérico cuenta como 0 para los totales en vivo, pero
// bloquea Finalize.
type NumberInput string

// Number construye un NumberInput desde un decimal.
func Number(d decimal.Decimal) NumberInput { return NumberInput(d.String()) }

// UnmarshalJSON acepta 10, "10", "" y null.
func (n *NumberInput) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*n = ""
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*n = NumberInput(str)
	default:
		*n = NumberInput(s)
	}
	return nil
}

// MarshalJSON emite número cuando el valor es numérico y texto en otro caso.
func (n NumberInput) MarshalJSON() ([]byte, error) {
	if d, ok := n.Decimal(); ok {
		return []byte(d.String()), nil
	}
	return json.Marshal(string(n))
}

// Límites de un valor numérico del formulario. Fuera de ellos el valor se
// trata como no numérico: "1e20000000" no llega a multiplicarse.
const (
	maxNumberLen      = 40
	maxNumberDigits   = 30
	maxNumberExponent = 20
)

// Decimal interpreta el valor; ok=false si está vacío, no es numérico o
// excede los límites de longitud, dígitos o exponente.
func (n NumberInput) Decimal() (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(n))
	if s == "" || len(s) > maxNumberLen {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxNumberExponent || exp < -maxNumberExponent {
		return decimal.Zero, false
	}
	if d.NumDigits() > maxNumberDigits {
		return decimal.Zero, false
	}
	return d, true
}

// OrZero política de edición: faltante o no numérico = 0.
func (n NumberInput) OrZero() decimal.Decimal {
	d, _ := n.Decimal()
	return d
}

// DraftItem línea en edición. Amount es caché de Quantity*Rate.
type DraftItem struct {
	Description string          `json:"description"`
	Quantity    NumberInput     `json:"quantity"`
	Rate        NumberInput     `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceDraft registro candidato de la sesión de edición (mutable, de un solo dueño).
// Los nombres JSON son los del formulario y coinciden con las rutas de Violation.
type InvoiceDraft struct {
	InvoiceNumber string `json:"invoiceNumber"`
	InvoiceDate   string `json:"invoiceDate"`
	DueDate       string `json:"dueDate"`

	FromName    string `json:"fromName"`
	FromEmail   string `json:"fromEmail"`
	FromAddress string `json:"fromAddress"`
	FromCity    string `json:"fromCity"`
	FromState   string `json:"fromState"`
	FromZip     string `json:"fromZip"`

	ToName    string `json:"toName"`
	ToEmail   string `json:"toEmail"`
	ToAddress string `json:"toAddress"`
	ToCity    string `json:"toCity"`
	ToState   string `json:"toState"`
	ToZip     string `json:"toZip"`

	Items        []DraftItem `json:"items"`
	TaxRate      NumberInput `json:"taxRate"`
	PaymentTerms string      `json:"paymentTerms"`
	Notes        string      `json:"notes,omitempty"`
}

// NewDraft crea un borrador con los valores iniciales del formulario:
// número INV-<unix ms>, fecha de hoy, vencimiento a 30 días, un ítem vacío y Net 30.
func NewDraft(now time.Time) *InvoiceDraft {
	return &InvoiceDraft{
		InvoiceNumber: fmt.Sprintf("INV-%d", now.UnixMilli()),
		InvoiceDate:   now.Format(invoice.DateLayout),
		DueDate:       now.AddDate(0, 0, DefaultDueDays).Format(invoice.DateLayout),
		Items:         []DraftItem{newDraftItem()},
		TaxRate:       "0",
		PaymentTerms:  entity.PaymentTermsNet30,
	}
}

func newDraftItem() DraftItem {
	return DraftItem{Quantity: "1", Rate: "0", Amount: decimal.Zero}
}

// ── Mutaciones: cada cambio de cantidad o tarifa refresca el Amount ──────────

// AddItem agrega una línea vacía y devuelve su índice.
func (d *InvoiceDraft) AddItem() int {
	d.Items = append(d.Items, newDraftItem())
	return len(d.Items) - 1
}

// RemoveItem elimina la línea i.
func (d *InvoiceDraft) RemoveItem(i int) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.Items = append(d.Items[:i], d.Items[i+1:]...)
	return nil
}

// SetItemDescription cambia la descripción de la línea i.
func (d *InvoiceDraft) SetItemDescription(i int, description string) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.Items[i].Description = description
	return nil
}

// SetItemQuantity cambia la cantidad de la línea i y recalcula su Amount.
func (d *InvoiceDraft) SetItemQuantity(i int, quantity NumberInput) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.Items[i].Quantity = quantity
	d.refreshItem(i)
	return nil
}

// SetItemRate cambia la tarifa de la línea i y recalcula su Amount.
func (d *InvoiceDraft) SetItemRate(i int, rate NumberInput) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.Items[i].Rate = rate
	d.refreshItem(i)
	return nil
}

// SetTaxRate cambia la tasa. Los totales se calculan al leer (LiveTotals).
func (d *InvoiceDraft) SetTaxRate(rate NumberInput) {
	d.TaxRate = rate
}

// Recalculate refresca todos los Amount (por ejemplo tras decodificar JSON).
func (d *InvoiceDraft) Recalculate() {
	for i := range d.Items {
		d.refreshItem(i)
	}
}

func (d *InvoiceDraft) refreshItem(i int) {
	it := &d.Items[i]
	it.Amount = invoice.LineAmount(it.Quantity.OrZero(), it.Rate.OrZero())
}

func (d *InvoiceDraft) checkIndex(i int) error {
	if i < 0 || i >= len(d.Items) {
		return fmt.Errorf("%w: ítem %d fuera de rango (hay %d)", domain.ErrInvalidInput, i, len(d.Items))
	}
	return nil
}

// ── Lectura ──────────────────────────────────────────────────────────────────

// LiveTotals totales en vivo durante la edición: valores faltantes o no
// numéricos cuentan como 0.
func (d *InvoiceDraft) LiveTotals() invoice.Totals {
	items := make([]entity.InvoiceItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, entity.InvoiceItem{
			Quantity: it.Quantity.OrZero(),
			Rate:     it.Rate.OrZero(),
		})
	}
	return invoice.CalculateTotals(items, d.TaxRate.OrZero())
}

// Finalize convierte el borrador en una factura tipada, con totales aplicados.
// Si algo no cumple, devuelve *invoice.ValidationError con TODAS las violaciones:
// primero los errores de formato (números, fechas) y luego las reglas de dominio
// de los campos que sí se pudieron interpretar.
func (d *InvoiceDraft) Finalize() (*entity.Invoice, error) {
	var vs invoice.Violations

	inv := &entity.Invoice{
		InvoiceNumber: strings.TrimSpace(d.InvoiceNumber),
		InvoiceDate:   parseDateField(&vs, "invoiceDate", "Invoice date", d.InvoiceDate),
		DueDate:       parseDateField(&vs, "dueDate", "Due date", d.DueDate),
		From: entity.Party{
			Name:    strings.TrimSpace(d.FromName),
			Email:   strings.TrimSpace(d.FromEmail),
			Address: strings.TrimSpace(d.FromAddress),
			City:    strings.TrimSpace(d.FromCity),
			State:   strings.TrimSpace(d.FromState),
			Zip:     strings.TrimSpace(d.FromZip),
		},
		To: entity.Party{
			Name:    strings.TrimSpace(d.ToName),
			Email:   strings.TrimSpace(d.ToEmail),
			Address: strings.TrimSpace(d.ToAddress),
			City:    strings.TrimSpace(d.ToCity),
			State:   strings.TrimSpace(d.ToState),
			Zip:     strings.TrimSpace(d.ToZip),
		},
		Items:        make([]entity.InvoiceItem, 0, len(d.Items)),
		PaymentTerms: strings.TrimSpace(d.PaymentTerms),
		Notes:        strings.TrimSpace(d.Notes),
	}

	for i, it := range d.Items {
		qty, ok := it.Quantity.Decimal()
		if !ok {
			vs.Add(fmt.Sprintf("items[%d].quantity", i), "Quantity must be a number")
		}
		rate, ok := it.Rate.Decimal()
		if !ok {
			vs.Add(fmt.Sprintf("items[%d].rate", i), "Rate must be a number")
		}
		inv.Items = append(inv.Items, entity.InvoiceItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    qty,
			Rate:        rate,
		})
	}

	taxRate, ok := d.TaxRate.Decimal()
	if !ok {
		vs.Add("taxRate", "Tax rate must be a number")
	}
	inv.TaxRate = taxRate

	invoice.ApplyTotals(inv)

	if err := invoice.Validate(inv); err != nil {
		var verr *invoice.ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		vs.Merge(verr.Violations)
	}
	if err := vs.Err(); err != nil {
		return nil, err
	}
	return inv, nil
}

func parseDateField(vs *invoice.Violations, field, label, raw string) time.Time {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}
	}
	t, err := invoice.ParseDate(raw)
	if err != nil {
		vs.Add(field, label+" must be a valid date (YYYY-MM-DD)")
		return time.Time{}
	}
	return t
}
