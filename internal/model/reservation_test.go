package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReservationDateAcceptsBothLayouts(t *testing.T) {
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	got, err := ParseReservationDate("2025-03-01")
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	got, err = ParseReservationDate("2025-03-01T00:00:00Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	_, err = ParseReservationDate("03/01/2025")
	assert.Error(t, err)
}

func TestDayReducesStoredDate(t *testing.T) {
	r := Reservation{ReservationDate: "2025-03-01T17:45:12Z"}
	assert.Equal(t, "2025-03-01", r.Day())

	r = Reservation{ReservationDate: "2025-03-01"}
	assert.Equal(t, "2025-03-01", r.Day())

	// Unparseable values pass through untouched rather than vanish.
	r = Reservation{ReservationDate: "soon"}
	assert.Equal(t, "soon", r.Day())
}
