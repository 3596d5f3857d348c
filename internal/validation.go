package internal

import (
	"fmt"
	"strings"

	"github.com/DrGermanius/ExpressWash/internal/model"
)

// ValidateForCreate checks the mandatory fields of a draft and returns the
// order ready for Insert, total included. Receipt uniqueness is the store's job.
func ValidateForCreate(in model.OrderInput, p model.PricingTable) (model.Order, error) {
	o := model.Order{
		ReceiptNumber: strings.TrimSpace(in.ReceiptNumber),
		CustomerName:  strings.TrimSpace(in.CustomerName),
		MobileNumber:  strings.TrimSpace(in.MobileNumber),
		OrderDate:     in.OrderDate,
		Quantities:    in.Quantities,
	}

	switch {
	case o.ReceiptNumber == "":
		return model.Order{}, fmt.Errorf("%w: receiptNumber is required", ErrValidation)
	case o.CustomerName == "":
		return model.Order{}, fmt.Errorf("%w: customerName is required", ErrValidation)
	case o.OrderDate.IsZero():
		return model.Order{}, fmt.Errorf("%w: orderDate is required", ErrValidation)
	}

	bill, err := BillFor(o.Quantities, p)
	if err != nil {
		return model.Order{}, err
	}
	o.TotalAmount = bill.Total

	return o, nil
}

// ValidatePatch applies the create-time field rules to the fields a patch sets.
func ValidatePatch(patch model.OrderPatch) error {
	if patch.IsEmpty() {
		return fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	if patch.CustomerName != nil && strings.TrimSpace(*patch.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", ErrValidation)
	}
	if patch.OrderDate != nil && patch.OrderDate.IsZero() {
		return fmt.Errorf("%w: orderDate is required", ErrValidation)
	}
	if patch.RegularClothesKg != nil && patch.RegularClothesKg.IsNegative() {
		return fmt.Errorf("%w: regularClothesKg %s", ErrInvalidQuantity, patch.RegularClothesKg)
	}
	if patch.BlanketsKg != nil && patch.BlanketsKg.IsNegative() {
		return fmt.Errorf("%w: blanketsKg %s", ErrInvalidQuantity, patch.BlanketsKg)
	}
	if patch.WhiteClothesPieces != nil && *patch.WhiteClothesPieces < 0 {
		return fmt.Errorf("%w: whiteClothesPieces %d", ErrInvalidQuantity, *patch.WhiteClothesPieces)
	}
	return nil
}

// applyPatch is shared by the store implementations so both recompute the
// total the same way: only when a quantity changes.
func applyPatch(o model.Order, patch model.OrderPatch, p model.PricingTable) (model.Order, error) {
	if o.IsCollected() {
		return model.Order{}, ErrOrderCollected
	}
	patch.Apply(&o)
	if patch.HasQuantities() {
		bill, err := BillFor(o.Quantities, p)
		if err != nil {
			return model.Order{}, err
		}
		o.TotalAmount = bill.Total
	}
	return o, nil
}
