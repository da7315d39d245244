package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPrice_ScalesByPrecision(t *testing.T) {
	p := NewPrice(100.50, 2)
	assert.Equal(t, int64(10050), p.Raw)
	assert.Equal(t, uint32(2), p.Precision)
}

func TestPrice_DecimalRoundTrip(t *testing.T) {
	p := Price{Raw: 10050, Precision: 2}
	assert.Equal(t, "100.5", p.Decimal().String())
	assert.Equal(t, "100.5", p.String())
}

func TestPrice_ZeroIsValid(t *testing.T) {
	p := Price{Raw: 0, Precision: 2}
	assert.Equal(t, "0", p.String())
}
