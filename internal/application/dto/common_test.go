package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tokokita-api/internal/domain"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-08-17")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC), *got)

	got, err = ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseDate("17/08/2025")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDefaultPage(t *testing.T) {
	p := PageRequest{}
	p.DefaultPage()
	assert.Equal(t, 20, p.Limit)

	p = PageRequest{Limit: 500, Offset: -1}
	p.DefaultPage()
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, 0, p.Offset)
}
