package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DecimalToBSON stores an amount as a Decimal128 so Mongo keeps it exact.
func DecimalToBSON(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("convert %s to decimal128: %w", d.String(), err)
	}
	return v, nil
}

// DecimalFromBSON is the inverse of DecimalToBSON. A zero-value Decimal128
// (field absent) reads as zero.
func DecimalFromBSON(v primitive.Decimal128) (decimal.Decimal, error) {
	if v.IsZero() {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("convert decimal128 %s: %w", v.String(), err)
	}
	return d, nil
}
