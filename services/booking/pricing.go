package booking

import (
	"github.com/shopspring/decimal"

	"podstudio/models"
)

// QuoteTotal is the pack base price plus every selected supplement, as of now.
// The result is stored on the reservation and never recomputed.
func QuoteTotal(pack models.PackOffer, supplements []models.Supplement) decimal.Decimal {
	total := pack.BasePrice
	for _, s := range supplements {
		total = total.Add(s.Price)
	}
	return total.Round(2)
}
