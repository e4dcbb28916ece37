package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/jhoicas/invoice-builder/internal/domain/entity"
)

// Format formato del artefacto generado.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatXML Format = "xml"
	FormatZIP Format = "zip" // PDF + XML en un solo archivo
)

// ParseFormat normaliza el formato pedido; vacío equivale a PDF.
func ParseFormat(s string) Format {
	if s == "" {
		return FormatPDF
	}
	return Format(s)
}

// Artifact documento binario listo para entregar al usuario.
type Artifact struct {
	Content     []byte
	ContentType string
	Extension   string // sin punto: "pdf", "xml", "zip"
	// Digest SHA-256 (hex) del contenido textual, sin metadatos de generación.
	// Dos renders del mismo registro producen el mismo Digest.
	Digest string
}

// Receipt acuse de la entrega (ruta, clave de objeto o nombre de descarga).
type Receipt struct {
	Location string
	Size     int
}

// InvoiceRenderer transforma una factura ya validada en un artefacto.
// No realiza I/O ni guarda estado entre llamadas; si falla no devuelve bytes parciales.
type InvoiceRenderer interface {
	Render(ctx context.Context, invoice *entity.Invoice) (*Artifact, error)
}

// ArtifactDeliverer entrega el artefacto al usuario según el host:
// descarga HTTP, archivo local o almacenamiento de objetos.
type ArtifactDeliverer interface {
	Deliver(ctx context.Context, artifact Artifact, filename string) (Receipt, error)
}

// DelivererFunc adapta una función a ArtifactDeliverer.
type DelivererFunc func(ctx context.Context, artifact Artifact, filename string) (Receipt, error)

// Deliver implementa ArtifactDeliverer.
func (f DelivererFunc) Deliver(ctx context.Context, artifact Artifact, filename string) (Receipt, error) {
	return f(ctx, artifact, filename)
}

// ContentDigest calcula el Digest de un contenido textual.
func ContentDigest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
