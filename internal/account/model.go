package account

import "github.com/shopspring/decimal"

// Record is a billing account row. Both figures are nullable in storage.
type Record struct {
	UserUID          string
	Balance          decimal.NullDecimal
	DeductionBalance decimal.NullDecimal
}

// Balance is the projection returned to callers. Both fields are always set.
type Balance struct {
	Balance          decimal.Decimal
	DeductionBalance decimal.Decimal
}

// Project converts a record into a Balance, reading null figures as zero.
// Negative values are kept as stored.
func (r Record) Project() Balance {
	return Balance{
		Balance:          orZero(r.Balance),
		DeductionBalance: orZero(r.DeductionBalance),
	}
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
