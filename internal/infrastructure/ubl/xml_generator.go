// Package ubl exporta la factura como documento XML con la estructura de UBL 2.1
// (Invoice-2), pensado para intercambio con sistemas contables.
package ubl

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/invoice-builder/internal/application/billing"
	"github.com/jhoicas/invoice-builder/internal/domain/entity"
	"github.com/jhoicas/invoice-builder/internal/domain/invoice"
)

// Namespaces UBL 2.1.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// ContentType tipo MIME del artefacto.
const ContentType = "application/xml"

// XMLGenerator implementa billing.InvoiceRenderer produciendo XML UBL.
type XMLGenerator struct {
	currency string
}

// NewXMLGenerator construye el generador. currency es el código ISO 4217
// ("USD" si viene vacío).
func NewXMLGenerator(currency string) *XMLGenerator {
	if currency == "" {
		currency = "USD"
	}
	return &XMLGenerator{currency: currency}
}

// Render arma el documento con etree y lo serializa en forma canónica (C14N),
// de modo que el mismo registro produce siempre los mismos bytes.
func (g *XMLGenerator) Render(ctx context.Context, inv *entity.Invoice) (*billing.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := g.Build(inv)
	raw, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("ubl: serializar: %w", err)
	}
	canonical, err := Canonicalize(raw)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.WriteString(xml.Header)
	out.Write(canonical)
	return &billing.Artifact{
		Content:     out.Bytes(),
		ContentType: ContentType,
		Extension:   "xml",
		Digest:      billing.ContentDigest(canonical),
	}, nil
}

// Build devuelve el árbol del documento sin serializar.
func (g *XMLGenerator) Build(inv *entity.Invoice) *etree.Document {
	doc := etree.NewDocument()
	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "UBLVersionID", "2.1")
	cbc(root, "ID", inv.InvoiceNumber)
	cbc(root, "IssueDate", inv.InvoiceDate.Format(invoice.DateLayout))
	cbc(root, "DueDate", inv.DueDate.Format(invoice.DateLayout))
	cbc(root, "InvoiceTypeCode", "380")
	if inv.HasNotes() {
		cbc(root, "Note", inv.Notes)
	}
	cbc(root, "DocumentCurrencyCode", g.currency)
	cbc(root, "LineCountNumeric", fmt.Sprint(len(inv.Items)))

	party(root.CreateElement("cac:AccountingSupplierParty"), inv.From)
	party(root.CreateElement("cac:AccountingCustomerParty"), inv.To)

	terms := root.CreateElement("cac:PaymentTerms")
	cbc(terms, "Note", inv.PaymentTerms)

	// ── Impuestos ──
	taxTotal := root.CreateElement("cac:TaxTotal")
	g.amount(taxTotal, "TaxAmount", inv.TaxAmount)
	sub := taxTotal.CreateElement("cac:TaxSubtotal")
	g.amount(sub, "TaxableAmount", inv.Subtotal)
	g.amount(sub, "TaxAmount", inv.TaxAmount)
	cat := sub.CreateElement("cac:TaxCategory")
	cbc(cat, "Percent", inv.TaxRate.String())

	// ── Totales ──
	monetary := root.CreateElement("cac:LegalMonetaryTotal")
	g.amount(monetary, "LineExtensionAmount", inv.Subtotal)
	g.amount(monetary, "TaxExclusiveAmount", inv.Subtotal)
	g.amount(monetary, "TaxInclusiveAmount", inv.Total)
	g.amount(monetary, "PayableAmount", inv.Total)

	// ── Líneas ──
	for i, it := range inv.Items {
		line := root.CreateElement("cac:InvoiceLine")
		cbc(line, "ID", fmt.Sprint(i+1))
		qty := cbc(line, "InvoicedQuantity", it.Quantity.String())
		qty.CreateAttr("unitCode", "C62")
		g.amount(line, "LineExtensionAmount", it.Amount)
		item := line.CreateElement("cac:Item")
		cbc(item, "Description", it.Description)
		price := line.CreateElement("cac:Price")
		g.amount(price, "PriceAmount", it.Rate)
	}
	return doc
}

func party(parent *etree.Element, p entity.Party) {
	pe := parent.CreateElement("cac:Party")
	name := pe.CreateElement("cac:PartyName")
	cbc(name, "Name", p.Name)

	addr := pe.CreateElement("cac:PostalAddress")
	cbc(addr, "StreetName", p.Address)
	cbc(addr, "CityName", p.City)
	cbc(addr, "PostalZone", p.Zip)
	cbc(addr, "CountrySubentity", p.State)

	contact := pe.CreateElement("cac:Contact")
	cbc(contact, "ElectronicMail", p.Email)
}

func cbc(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + tag)
	el.SetText(value)
	return el
}

func (g *XMLGenerator) amount(parent *etree.Element, tag string, d decimal.Decimal) {
	el := cbc(parent, tag, d.StringFixed(2))
	el.CreateAttr("currencyID", g.currency)
}

// Canonicalize serializa data en forma canónica (C14N). Un documento que no
// se puede canonicalizar es un error: el Digest solo se calcula sobre la forma canónica.
func Canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	out, err := c14n.Canonicalize(dec)
	if err != nil {
		return nil, fmt.Errorf("ubl: canonicalizar: %w", err)
	}
	return out, nil
}
