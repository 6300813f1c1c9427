package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func validateItemFields(itemType string, purchaseCost, sellingPrice decimal.Decimal, retailPrice *decimal.Decimal, discountPct decimal.Decimal) error {
	if strings.TrimSpace(itemType) == "" {
		return fmt.Errorf("%w: item type is required", ErrInvalidItem)
	}
	if purchaseCost.IsNegative() {
		return fmt.Errorf("%w: purchase cost cannot be negative", ErrInvalidItem)
	}
	if sellingPrice.IsNegative() {
		return fmt.Errorf("%w: selling price cannot be negative", ErrInvalidItem)
	}
	if retailPrice != nil && retailPrice.IsNegative() {
		return fmt.Errorf("%w: retail price cannot be negative", ErrInvalidItem)
	}
	if !isMoney(purchaseCost) || !isMoney(sellingPrice) || (retailPrice != nil && !isMoney(*retailPrice)) {
		return fmt.Errorf("%w: prices are limited to whole cents", ErrInvalidItem)
	}
	return ValidateDiscount(discountPct)
}

func validateCustomer(in NewCustomerInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidCustomer)
	}
	return nil
}

func validatePayment(method PaymentMethod, receiver string) error {
	if !method.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidPayment, method)
	}
	if strings.TrimSpace(receiver) == "" {
		return fmt.Errorf("%w: payment receiver is required", ErrInvalidPayment)
	}
	return nil
}

// validateSaleInput rejects a sale request before any row is touched.
func validateSaleInput(in CreateSaleInput) error {
	if len(in.Lines) == 0 {
		return ErrEmptySale
	}
	if in.CustomerID == 0 && in.NewCustomer == nil {
		return fmt.Errorf("%w: a customer id or new customer is required", ErrInvalidCustomer)
	}
	if in.CustomerID != 0 && in.NewCustomer != nil {
		return fmt.Errorf("%w: give either a customer id or a new customer, not both", ErrInvalidCustomer)
	}
	if in.NewCustomer != nil {
		if err := validateCustomer(*in.NewCustomer); err != nil {
			return err
		}
	}
	if err := validatePayment(in.PaymentMethod, in.PaymentReceiver); err != nil {
		return err
	}
	for i, l := range in.Lines {
		if l.InventoryItemID <= 0 {
			return fmt.Errorf("%w: line %d has no inventory item", ErrInvalidLine, i+1)
		}
		if l.Quantity < 1 {
			return fmt.Errorf("%w: line %d quantity must be at least 1", ErrInvalidLine, i+1)
		}
		if l.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: line %d unit price cannot be negative", ErrInvalidLine, i+1)
		}
		if !isMoney(l.UnitPrice) {
			return fmt.Errorf("%w: line %d unit price %s has more than two decimals", ErrInvalidLine, i+1, l.UnitPrice)
		}
		if err := ValidateDiscount(l.DiscountPercentage); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}
