package invoice_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder/internal/domain/invoice"
)

func TestParseDate_FechaPlanaEsMedianocheUTC(t *testing.T) {
	got, err := invoice.ParseDate("2025-03-01")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), got)
}

// Un instante RFC 3339 al oeste de UTC conserva su propio día de calendario.
func TestParseDate_RFC3339ConservaElDia(t *testing.T) {
	got, err := invoice.ParseDate("2025-03-01T23:30:00-05:00")
	require.NoError(t, err)

	assert.Equal(t, 1, got.Day())
	assert.Equal(t, time.UTC, got.Location())
}

func TestParseDate_Invalida(t *testing.T) {
	for _, in := range []string{"", "   ", "01/03/2025", "2025-13-01", "mañana", "0001-01-01", "0001-01-01T10:00:00Z"} {
		_, err := invoice.ParseDate(in)
		assert.Error(t, err, "entrada %q", in)
	}
}
