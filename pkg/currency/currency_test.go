package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"asset-tracking-api/internal/models"
)

func TestConvert(t *testing.T) {
	hundred := decimal.RequireFromString("100")

	assert.Equal(t, "100.00", Convert(hundred, models.UnitedStates).StringFixed(2))
	assert.Equal(t, "95.00", Convert(hundred, models.Germany).StringFixed(2))
	assert.Equal(t, "1094.00", Convert(hundred, models.Sweden).StringFixed(2))
}

func TestConvertPreservesPrecision(t *testing.T) {
	price := decimal.RequireFromString("1299.99")

	assert.Equal(t, "1234.9905", Convert(price, models.Germany).String())
	assert.Equal(t, "1234.99", Convert(price, models.Germany).StringFixed(2))
}

func TestConvertUnknownCountryPanics(t *testing.T) {
	assert.Panics(t, func() {
		Convert(decimal.Zero, models.Country("Atlantis"))
	})
}

func TestFormat(t *testing.T) {
	hundred := decimal.RequireFromString("100")

	assert.Equal(t, "$ 100.00", Format(hundred, models.UnitedStates))
	assert.Equal(t, "€ 95.00", Format(hundred, models.Germany))
	assert.Equal(t, "SEK 1094.00", Format(hundred, models.Sweden))
}
