package accounting

import (
	"fmt"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// LineAmount is the quantity and price of one document line.
type LineAmount struct {
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// Totals holds the computed money fields of a sale, purchase or provisional sale.
type Totals struct {
	LineTotals []decimal.Decimal
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	Total      decimal.Decimal
}

// Precision of NUMERIC money and unit cost columns.
const (
	moneyPlaces = 2
	costPlaces  = 4
)

// RoundMoney rounds an amount to the stored money precision.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// RoundCost rounds a unit cost to the stored cost precision.
func RoundCost(d decimal.Decimal) decimal.Decimal {
	return d.Round(costPlaces)
}

// CalculateLineTotal returns quantity * price rounded to money precision.
func CalculateLineTotal(quantity, price decimal.Decimal) decimal.Decimal {
	return RoundMoney(quantity.Mul(price))
}

// CalculateTotals validates the lines and discount and derives subtotal and total.
// subtotal = sum(line totals), 0 <= discount <= subtotal, total = subtotal - discount.
func CalculateTotals(lines []LineAmount, discount decimal.Decimal) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, apperrors.NewValidationFailedError("يجب إضافة صنف واحد على الأقل")
	}

	totals := Totals{LineTotals: make([]decimal.Decimal, len(lines)), Subtotal: decimal.Zero}
	for i, line := range lines {
		if !line.Quantity.IsPositive() {
			return Totals{}, apperrors.NewValidationFailedError(fmt.Sprintf("الكمية في السطر %d يجب أن تكون أكبر من صفر", i+1))
		}
		if line.Price.IsNegative() {
			return Totals{}, apperrors.NewValidationFailedError(fmt.Sprintf("السعر في السطر %d لا يمكن أن يكون سالباً", i+1))
		}
		totals.LineTotals[i] = CalculateLineTotal(line.Quantity, line.Price)
		totals.Subtotal = totals.Subtotal.Add(totals.LineTotals[i])
	}

	discount = RoundMoney(discount)
	if discount.IsNegative() {
		return Totals{}, apperrors.NewValidationFailedError("الخصم لا يمكن أن يكون سالباً")
	}
	if discount.GreaterThan(totals.Subtotal) {
		return Totals{}, apperrors.NewValidationFailedError("الخصم لا يمكن أن يتجاوز إجمالي الفاتورة")
	}
	totals.Discount = discount
	totals.Total = totals.Subtotal.Sub(discount)
	return totals, nil
}

// ValidatePaidAmount checks 0 <= paid <= total.
func ValidatePaidAmount(paid, total decimal.Decimal) error {
	if paid.IsNegative() {
		return apperrors.NewValidationFailedError("المبلغ المدفوع لا يمكن أن يكون سالباً")
	}
	if paid.GreaterThan(total) {
		return apperrors.NewValidationFailedError("المبلغ المدفوع لا يمكن أن يتجاوز صافي الفاتورة")
	}
	return nil
}

// WeightedAverageCost blends the current cost with an incoming purchase.
// When nothing is on hand the incoming unit cost replaces the old one.
func WeightedAverageCost(oldStock, oldCost, quantity, unitCost decimal.Decimal) decimal.Decimal {
	if !oldStock.IsPositive() {
		return unitCost
	}
	newStock := oldStock.Add(quantity)
	if !newStock.IsPositive() {
		return unitCost
	}
	value := oldStock.Mul(oldCost).Add(quantity.Mul(unitCost))
	return value.DivRound(newStock, costPlaces)
}
