package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	"github.com/ceramica/erp_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// lineInput is a requested document line before it is priced against the catalogue.
// CataloguePrice ignores Price and uses the product sale price.
type lineInput struct {
	ProductID      string
	Quantity       decimal.Decimal
	Price          decimal.Decimal
	CataloguePrice bool
}

// resolvedLines holds the catalogue products and unit prices aligned with the inputs,
// and the document totals.
type resolvedLines struct {
	Products []domain.Product
	Prices   []decimal.Decimal
	Totals   accounting.Totals
}

// resolveLines loads every referenced product of the company, rejects unknown and
// inactive ones, and computes line totals, subtotal and total.
func resolveLines(ctx context.Context, products portsrepo.ProductReader, companyID string, inputs []lineInput, discount decimal.Decimal) (resolvedLines, error) {
	if len(inputs) == 0 {
		return resolvedLines{}, apperrors.NewValidationFailedError("يجب إضافة صنف واحد على الأقل")
	}

	ids := make([]string, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if strings.TrimSpace(in.ProductID) == "" {
			return resolvedLines{}, apperrors.NewValidationFailedError("يجب اختيار الصنف لكل سطر")
		}
		if !seen[in.ProductID] {
			seen[in.ProductID] = true
			ids = append(ids, in.ProductID)
		}
	}

	found, err := products.FindProductsByIDs(ctx, companyID, ids)
	if err != nil {
		return resolvedLines{}, err
	}

	resolved := resolvedLines{
		Products: make([]domain.Product, len(inputs)),
		Prices:   make([]decimal.Decimal, len(inputs)),
	}
	amounts := make([]accounting.LineAmount, len(inputs))
	for i, in := range inputs {
		p, ok := found[in.ProductID]
		if !ok {
			return resolvedLines{}, apperrors.NewNotFoundError(fmt.Sprintf("الصنف في السطر %d غير موجود", i+1))
		}
		if !p.IsActive {
			return resolvedLines{}, apperrors.NewValidationFailedError(fmt.Sprintf("الصنف \"%s\" غير مفعل", p.Name))
		}
		price := in.Price
		if in.CataloguePrice {
			price = p.SalePrice
		}
		resolved.Products[i] = p
		resolved.Prices[i] = price
		amounts[i] = accounting.LineAmount{Quantity: in.Quantity, Price: price}
	}

	resolved.Totals, err = accounting.CalculateTotals(amounts, discount)
	if err != nil {
		return resolvedLines{}, err
	}
	return resolved, nil
}

// checkPayment enforces 0 <= paid <= total and that cash paid goes to a treasury.
func checkPayment(paid, total decimal.Decimal, treasuryID *string) error {
	if err := accounting.ValidatePaidAmount(paid, total); err != nil {
		return err
	}
	if paid.IsPositive() && treasuryID == nil {
		return apperrors.NewValidationFailedError("يجب اختيار الخزينة عند وجود مبلغ مدفوع")
	}
	return nil
}

// requireCreditCustomer rejects an unpaid remainder that has no customer account to carry it.
func requireCreditCustomer(paid, total decimal.Decimal, contactID *string) error {
	if total.GreaterThan(paid) && contactID == nil {
		return apperrors.NewValidationFailedError("يجب اختيار العميل عند البيع الآجل")
	}
	return nil
}

// requireTreasury checks that a referenced treasury belongs to the company and is active.
func requireTreasury(ctx context.Context, treasuries portsrepo.TreasuryReader, companyID string, treasuryID *string) error {
	if treasuryID == nil {
		return nil
	}
	t, err := treasuries.FindTreasuryByID(ctx, companyID, *treasuryID)
	if err != nil {
		return err
	}
	if !t.IsActive {
		return apperrors.NewValidationFailedError(fmt.Sprintf("الخزينة \"%s\" غير مفعلة", t.Name))
	}
	return nil
}

// requireContact checks that a referenced contact belongs to the company and is active.
func requireContact(ctx context.Context, contacts portsrepo.ContactReader, companyID string, contactID *string) (*domain.FinancialContact, error) {
	if contactID == nil {
		return nil, nil
	}
	c, err := contacts.FindContactByID(ctx, companyID, *contactID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("العميل \"%s\" غير مفعل", c.Name))
	}
	return c, nil
}

// optionalID treats an empty or blank id as absent.
func optionalID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// invoiceDate truncates the requested date, or now, to a calendar day.
func invoiceDate(requested *time.Time, now time.Time) time.Time {
	d := now
	if requested != nil && !requested.IsZero() {
		d = *requested
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// parseDateFilter parses inclusive YYYY-MM-DD bounds; empty values are unbounded.
func parseDateFilter(from, to string) (*time.Time, *time.Time, error) {
	var fromDate, toDate *time.Time
	if from != "" {
		d, err := time.Parse(dateLayout, from)
		if err != nil {
			return nil, nil, apperrors.NewValidationFailedError("تاريخ البداية غير صالح")
		}
		fromDate = &d
	}
	if to != "" {
		d, err := time.Parse(dateLayout, to)
		if err != nil {
			return nil, nil, apperrors.NewValidationFailedError("تاريخ النهاية غير صالح")
		}
		toDate = &d
	}
	if fromDate != nil && toDate != nil && toDate.Before(*fromDate) {
		return nil, nil, apperrors.NewValidationFailedError("تاريخ النهاية يجب أن يكون بعد تاريخ البداية")
	}
	return fromDate, toDate, nil
}

// requireStatus fails with ErrInvalidStatus unless the document is in one of allowed.
func requireStatus(current domain.DocumentStatus, target domain.DocumentStatus, allowed ...domain.DocumentStatus) error {
	for _, s := range allowed {
		if current == s {
			return nil
		}
	}
	return apperrors.NewInvalidStatusError(string(current), string(target))
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}

// documentEvent is the payload of document lifecycle events.
type documentEvent struct {
	Number     string          `json:"number"`
	Total      decimal.Decimal `json:"total"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
}

func documentEventData(number string, total, paid decimal.Decimal) documentEvent {
	return documentEvent{Number: number, Total: total, PaidAmount: paid}
}
