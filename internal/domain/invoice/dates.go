package invoice

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout formato de fecha de calendario aceptado en la entrada (input type=date).
const DateLayout = "2006-01-02"

// ParseDate interpreta una fecha de calendario como medianoche UTC.
// También acepta RFC 3339; en ese caso conserva el día del propio valor, sin
// convertir de zona, para que la fecha mostrada nunca se corra un día.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("fecha vacía")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		rfc, rfcErr := time.Parse(time.RFC3339, s)
		if rfcErr != nil {
			return time.Time{}, fmt.Errorf("fecha %q: se espera YYYY-MM-DD", s)
		}
		t = CalendarDate(rfc)
	}
	// El valor cero significa "sin fecha" en la factura.
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("fecha %q fuera de rango", s)
	}
	return t, nil
}

// CalendarDate normaliza t a medianoche UTC del mismo día de calendario.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
