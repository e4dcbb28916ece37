package billing

import "strings"

// ArtifactFilename arma el nombre sugerido: invoice-<invoiceNumber>.<ext>.
// Los separadores de ruta y caracteres reservados se reemplazan por '-'.
func ArtifactFilename(invoiceNumber, extension string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(invoiceNumber) {
		switch {
		case r < 0x20, strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	name := strings.Trim(b.String(), ". ")
	if name == "" {
		name = "draft"
	}
	return "invoice-" + name + "." + extension
}
