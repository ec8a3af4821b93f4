package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay_UsesBusinessZone(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	// 03:00 WIB del 18 = 20:00 UTC del 17
	sale := time.Date(2026, 10, 18, 3, 0, 0, 0, wib).UTC()

	got := StartOfDay(sale, wib)
	assert.True(t, got.Equal(time.Date(2026, 10, 18, 0, 0, 0, 0, wib)))
	assert.Equal(t, "2026-10-18", got.Format("2006-01-02"))

	assert.True(t, StartOfDay(sale, nil).Equal(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)))
}

func TestDayIn(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	date := DateOnly(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC))

	got := DayIn(date, wib)
	assert.True(t, got.Equal(time.Date(2026, 10, 17, 17, 0, 0, 0, time.UTC)))
}

func TestIsDateOnly(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	tests := []struct {
		in   time.Time
		want bool
	}{
		{time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC), false},
		{time.Date(2026, 10, 18, 0, 0, 0, 0, wib), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDateOnly(tt.in), tt.in.String())
	}
}
