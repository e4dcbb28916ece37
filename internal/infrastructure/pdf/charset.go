package pdf

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// Las fuentes base (Helvetica) de ambos motores solo cubren Windows-1252: un
// carácter fuera de ese juego se imprimiría como '.'. Se rechaza antes de pintar.
func checkCharset(l Layout) error {
	enc := charmap.Windows1252.NewEncoder()
	for _, s := range l.Lines() {
		if _, err := enc.String(s); err != nil {
			return fmt.Errorf("pdf: texto %q no representable en Windows-1252: %w", s, err)
		}
	}
	return nil
}
