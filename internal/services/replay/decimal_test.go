package replay

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal_EmptyStringYieldsZero(t *testing.T) {
	d, err := parseDecimal("")

	require.NoError(t, err)
	assert.True(t, decimal.Zero.Equal(d))
}

func TestParseDecimal_ValidString(t *testing.T) {
	d, err := parseDecimal("42.75")

	require.NoError(t, err)
	assert.Equal(t, "42.75", d.String())
}

func TestParseDecimal_MalformedStringErrors(t *testing.T) {
	_, err := parseDecimal("not-a-number")

	assert.Error(t, err)
}
