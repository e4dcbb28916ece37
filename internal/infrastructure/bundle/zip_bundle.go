// Package bundle empaqueta varias representaciones de la misma factura
// (PDF + XML) en un único ZIP.
package bundle

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/invoice-builder/internal/application/billing"
	"github.com/jhoicas/invoice-builder/internal/domain/entity"
)

// ContentType tipo MIME del artefacto.
const ContentType = "application/zip"

// Part una entrada del ZIP: el motor que la genera.
type Part struct {
	Format   billing.Format
	Renderer billing.InvoiceRenderer
}

// ZipRenderer implementa billing.InvoiceRenderer generando cada parte y
// comprimiéndolas en memoria. Si una parte falla no se devuelve nada.
type ZipRenderer struct {
	parts []Part
}

// NewZipRenderer construye el renderer con las partes en el orden dado.
func NewZipRenderer(parts ...Part) *ZipRenderer {
	return &ZipRenderer{parts: parts}
}

// Render implementa billing.InvoiceRenderer.
func (z *ZipRenderer) Render(ctx context.Context, inv *entity.Invoice) (*billing.Artifact, error) {
	if len(z.parts) == 0 {
		return nil, fmt.Errorf("zip: sin partes")
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	digests := make([]string, 0, len(z.parts))

	for _, p := range z.parts {
		art, err := p.Renderer.Render(ctx, inv)
		if err != nil {
			return nil, fmt.Errorf("zip: parte %s: %w", p.Format, err)
		}
		name := billing.ArtifactFilename(inv.InvoiceNumber, art.Extension)
		// Fecha fija de la entrada: la de la factura, no la del reloj.
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: inv.InvoiceDate,
		})
		if err != nil {
			return nil, fmt.Errorf("zip: crear entrada %s: %w", name, err)
		}
		if _, err := fw.Write(art.Content); err != nil {
			return nil, fmt.Errorf("zip: escribir %s: %w", name, err)
		}
		digests = append(digests, art.Digest)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}

	return &billing.Artifact{
		Content:     buf.Bytes(),
		ContentType: ContentType,
		Extension:   "zip",
		Digest:      billing.ContentDigest([]byte(strings.Join(digests, "\n"))),
	}, nil
}
