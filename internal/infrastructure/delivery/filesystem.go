// Package delivery entrega artefactos ya generados: a disco local o a un
// bucket S3. La descarga HTTP vive en la capa de interfaces.
package delivery

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jhoicas/invoice-builder/internal/application/billing"
)

// FileSystemDeliverer escribe el artefacto en un directorio. Escribe primero
// un temporal y luego renombra: nunca queda un archivo parcial con el nombre final.
type FileSystemDeliverer struct {
	dir string
}

// NewFileSystemDeliverer construye el deliverer. dir vacío = directorio actual.
func NewFileSystemDeliverer(dir string) *FileSystemDeliverer {
	if dir == "" {
		dir = "."
	}
	return &FileSystemDeliverer{dir: dir}
}

// Deliver implementa billing.ArtifactDeliverer.
func (d *FileSystemDeliverer) Deliver(ctx context.Context, artifact billing.Artifact, filename string) (billing.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return billing.Receipt{}, err
	}
	if filename != filepath.Base(filename) {
		return billing.Receipt{}, fmt.Errorf("delivery: nombre de archivo inválido %q", filename)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return billing.Receipt{}, fmt.Errorf("delivery: crear directorio: %w", err)
	}

	tmp, err := os.CreateTemp(d.dir, ".invoice-*")
	if err != nil {
		return billing.Receipt{}, fmt.Errorf("delivery: archivo temporal: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op tras el rename

	if _, err := tmp.Write(artifact.Content); err != nil {
		tmp.Close()
		return billing.Receipt{}, fmt.Errorf("delivery: escribir: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return billing.Receipt{}, fmt.Errorf("delivery: cerrar: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return billing.Receipt{}, fmt.Errorf("delivery: permisos: %w", err)
	}

	dest := filepath.Join(d.dir, filename)
	if err := os.Rename(tmpName, dest); err != nil {
		return billing.Receipt{}, fmt.Errorf("delivery: renombrar: %w", err)
	}
	return billing.Receipt{Location: dest, Size: len(artifact.Content)}, nil
}

// WriterDeliverer escribe el artefacto en un io.Writer (stdout en la CLI).
type WriterDeliverer struct {
	w io.Writer
}

// NewWriterDeliverer construye el deliverer.
func NewWriterDeliverer(w io.Writer) *WriterDeliverer {
	return &WriterDeliverer{w: w}
}

// Deliver implementa billing.ArtifactDeliverer.
func (d *WriterDeliverer) Deliver(_ context.Context, artifact billing.Artifact, filename string) (billing.Receipt, error) {
	n, err := d.w.Write(artifact.Content)
	if err != nil {
		return billing.Receipt{}, fmt.Errorf("delivery: escribir %s: %w", filename, err)
	}
	return billing.Receipt{Location: "-", Size: n}, nil
}
