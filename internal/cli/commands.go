package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/invoice-builder/internal/application/billing"
	"github.com/jhoicas/invoice-builder/internal/bootstrap"
	"github.com/jhoicas/invoice-builder/internal/domain"
	"github.com/jhoicas/invoice-builder/internal/infrastructure/delivery"
	"github.com/jhoicas/invoice-builder/pkg/jwt"
)

// ── init ─────────────────────────────────────────────────────────────────────

func (a *app) initCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Escribir un borrador nuevo con los valores por defecto",
		Example: `  invoicegen init -o draft.json
  invoicegen init | jq .invoiceNumber`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft := billing.NewDraft(a.opts.Now())
			if out == "" || out == "-" {
				return writeJSON(cmd.OutOrStdout(), draft)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("crear %s: %w", out, err)
			}
			defer f.Close()
			if err := writeJSON(f, draft); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Borrador %s escrito en %s\n", draft.InvoiceNumber, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "archivo de salida (por defecto stdout)")
	return cmd
}

// ── totals ───────────────────────────────────────────────────────────────────

func (a *app) totalsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "totals <draft.json|->",
		Short: "Mostrar los totales en vivo de un borrador (sin validar)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := readDraft(cmd, args[0])
			if err != nil {
				return err
			}
			t := draft.LiveTotals()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Subtotal: %s\n", t.Subtotal.StringFixed(2))
			fmt.Fprintf(w, "Tax (%s%%): %s\n", draft.TaxRate.OrZero().String(), t.TaxAmount.StringFixed(2))
			fmt.Fprintf(w, "Total: %s\n", t.Total.StringFixed(2))
			return nil
		},
	}
}

// ── validate ─────────────────────────────────────────────────────────────────

func (a *app) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <draft.json|->",
		Short: "Validar un borrador y listar todas las violaciones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := readDraft(cmd, args[0])
			if err != nil {
				return err
			}
			inv, err := draft.Finalize()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK %s total %s\n", inv.InvoiceNumber, inv.Total.StringFixed(2))
			return nil
		},
	}
}

// ── render ───────────────────────────────────────────────────────────────────

func (a *app) renderCommand() *cobra.Command {
	var (
		format string
		engine string
		out    string
		toS3   bool
	)
	cmd := &cobra.Command{
		Use:   "render <draft.json|->",
		Short: "Generar el documento de un borrador válido",
		Example: `  # PDF en el directorio de salida configurado
  invoicegen render draft.json

  # XML por stdout
  invoicegen render draft.json --format xml --out -

  # PDF con gofpdf, archivado en S3
  invoicegen render draft.json --engine gofpdf --s3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch engine {
			case "", "maroto", "gofpdf":
			default:
				return fmt.Errorf("%w: motor %q (maroto|gofpdf)", domain.ErrInvalidInput, engine)
			}
			draft, err := readDraft(cmd, args[0])
			if err != nil {
				return err
			}
			deliverer, err := a.deliverer(cmd, out, toS3)
			if err != nil {
				return err
			}

			uc := bootstrap.NewUseCase(a.cfg, engine, nil, a.log)
			res, err := uc.Generate(cmd.Context(), draft, billing.ParseFormat(format), deliverer)
			if err != nil {
				return err
			}
			if res.Receipt.Location != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes) → %s\n", res.Filename, res.Receipt.Size, res.Receipt.Location)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "formato: pdf | xml | zip")
	cmd.Flags().StringVar(&engine, "engine", "", "motor PDF: maroto | gofpdf (por defecto RENDER_ENGINE)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "directorio de salida, o - para stdout (por defecto OUTPUT_DIR)")
	cmd.Flags().BoolVar(&toS3, "s3", false, "archivar en el bucket S3 configurado")
	cmd.MarkFlagsMutuallyExclusive("out", "s3")
	return cmd
}

func (a *app) deliverer(cmd *cobra.Command, out string, toS3 bool) (billing.ArtifactDeliverer, error) {
	if toS3 {
		if a.opts.Archive != nil {
			return a.opts.Archive, nil
		}
		d, err := bootstrap.ArchiveDeliverer(cmd.Context(), a.cfg.Storage)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, fmt.Errorf("%w: defina S3_BUCKET para usar --s3", domain.ErrNotConfigured)
		}
		return d, nil
	}
	if out == "-" {
		return delivery.NewWriterDeliverer(cmd.OutOrStdout()), nil
	}
	if out == "" {
		out = a.cfg.Storage.OutputDir
	}
	return delivery.NewFileSystemDeliverer(out), nil
}

// ── token ────────────────────────────────────────────────────────────────────

func (a *app) tokenCommand() *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emitir un token JWT para la API (requiere AUTH_JWT_SECRET)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.Auth.Enabled() {
				return fmt.Errorf("%w: AUTH_JWT_SECRET vacío", domain.ErrNotConfigured)
			}
			tok, err := jwt.Generate(a.cfg.Auth.JWTSecret, subject, a.cfg.Auth.Issuer, a.cfg.Auth.ExpirationMinutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "invoicegen", "sujeto del token")
	return cmd
}
