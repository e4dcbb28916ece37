// Package cli implementa invoicegen, la CLI para crear facturas desde archivos JSON.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/invoice-builder/internal/application/billing"
	"github.com/jhoicas/invoice-builder/internal/domain/invoice"
	"github.com/jhoicas/invoice-builder/pkg/config"
	"github.com/jhoicas/invoice-builder/pkg/logger"
)

var version = "1.0.0"

// Options dependencias opcionales, sobre todo para tests.
type Options struct {
	Now     func() time.Time
	Archive billing.ArtifactDeliverer // nil = se construye desde la config al usar --s3
}

type app struct {
	cfg  *config.Config
	log  *logger.Logger
	opts Options
}

// NewRootCommand construye el árbol de comandos.
func NewRootCommand(cfg *config.Config, log *logger.Logger, opts Options) *cobra.Command {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	a := &app{cfg: cfg, log: log.Component("cli"), opts: opts}

	root := &cobra.Command{
		Use:   "invoicegen",
		Short: "Crear, validar y generar facturas desde archivos JSON",
		Long: `invoicegen trabaja sobre borradores de factura en JSON (el mismo formato
que acepta la API). Calcula totales, valida todos los campos a la vez y genera
el documento en PDF, XML o ZIP (ambos), en disco, por stdout o en un bucket S3.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		a.initCommand(),
		a.totalsCommand(),
		a.validateCommand(),
		a.renderCommand(),
		a.tokenCommand(),
	)
	return root
}

// Execute corre la CLI y devuelve el código de salida.
func Execute(root *cobra.Command) int {
	err := root.Execute()
	if err == nil {
		return 0
	}
	stderr := root.ErrOrStderr()
	var verr *invoice.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(stderr, "La factura no es válida:")
		for _, v := range verr.Violations {
			fmt.Fprintf(stderr, "  - %s: %s\n", v.Field, v.Message)
		}
		return 2
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

// readDraft lee un borrador desde un archivo o desde stdin ("-").
func readDraft(cmd *cobra.Command, path string) (*billing.InvoiceDraft, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("abrir borrador: %w", err)
		}
		defer f.Close()
		r = f
	}
	var draft billing.InvoiceDraft
	if err := json.NewDecoder(r).Decode(&draft); err != nil {
		return nil, fmt.Errorf("leer borrador %s: %w", path, err)
	}
	return &draft, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
