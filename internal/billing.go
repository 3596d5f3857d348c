package internal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/DrGermanius/ExpressWash/internal/model"
)

// ComputeBill prices each service line and sums them. Products are exact;
// rounding to two places happens only when amounts are rendered.
func ComputeBill(regularKg, blanketsKg decimal.Decimal, whitePieces int64, p model.PricingTable) (model.Bill, error) {
	if regularKg.IsNegative() {
		return model.Bill{}, fmt.Errorf("%w: regularClothesKg %s", ErrInvalidQuantity, regularKg)
	}
	if blanketsKg.IsNegative() {
		return model.Bill{}, fmt.Errorf("%w: blanketsKg %s", ErrInvalidQuantity, blanketsKg)
	}
	if whitePieces < 0 {
		return model.Bill{}, fmt.Errorf("%w: whiteClothesPieces %d", ErrInvalidQuantity, whitePieces)
	}

	b := model.Bill{
		RegularCost:  regularKg.Mul(p.RegularClothes),
		BlanketsCost: blanketsKg.Mul(p.Blankets),
		WhiteCost:    decimal.NewFromInt(whitePieces).Mul(p.WhiteClothes),
	}
	b.Total = b.RegularCost.Add(b.BlanketsCost).Add(b.WhiteCost)
	return b, nil
}

func BillFor(q model.Quantities, p model.PricingTable) (model.Bill, error) {
	return ComputeBill(q.RegularClothesKg, q.BlanketsKg, q.WhiteClothesPieces, p)
}

// ValidatePricing rejects tables with missing or non-positive rates.
func ValidatePricing(p model.PricingTable) error {
	rates := map[string]decimal.Decimal{
		"regularClothes": p.RegularClothes,
		"blankets":       p.Blankets,
		"whiteClothes":   p.WhiteClothes,
	}
	for name, rate := range rates {
		if !rate.IsPositive() {
			return fmt.Errorf("%w: %s rate %s", ErrInvalidPricing, name, rate)
		}
	}
	return nil
}
