package models

import "github.com/shopspring/decimal"

// Priced reference data managed by the studio's CMS. The scheduling core only
// reads it; decors and themes are checked for existence only.

type PackOffer struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"basePrice"`
	Active    bool            `json:"active"`
}

type Supplement struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Active bool            `json:"active"`
}
