package domain_test

import (
	"testing"

	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentKind_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		kind domain.DocumentKind
		from domain.DocumentStatus
		to   domain.DocumentStatus
		want bool
	}{
		{"sale draft to approved", domain.DocSale, domain.StatusDraft, domain.StatusApproved, true},
		{"sale draft to cancelled", domain.DocSale, domain.StatusDraft, domain.StatusCancelled, true},
		{"sale approved to cancelled", domain.DocSale, domain.StatusApproved, domain.StatusCancelled, true},
		{"sale approved back to draft", domain.DocSale, domain.StatusApproved, domain.StatusDraft, false},
		{"sale cancelled is terminal", domain.DocSale, domain.StatusCancelled, domain.StatusApproved, false},
		{"sale has no pending", domain.DocSale, domain.StatusDraft, domain.StatusPending, false},
		{"purchase mirrors sale", domain.DocPurchase, domain.StatusDraft, domain.StatusApproved, true},
		{"provisional draft to pending", domain.DocProvisional, domain.StatusDraft, domain.StatusPending, true},
		{"provisional draft cannot convert", domain.DocProvisional, domain.StatusDraft, domain.StatusConverted, false},
		{"provisional pending to converted", domain.DocProvisional, domain.StatusPending, domain.StatusConverted, true},
		{"provisional approved to converted", domain.DocProvisional, domain.StatusApproved, domain.StatusConverted, true},
		{"provisional converted is terminal", domain.DocProvisional, domain.StatusConverted, domain.StatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.CanTransition(tt.from, tt.to))
		})
	}
}

func TestDocumentNumberRoundTrip(t *testing.T) {
	number := domain.FormatDocumentNumber(domain.DocSale, 42)
	assert.Equal(t, "SAL-000042", number)

	kind, value, err := domain.ParseDocumentNumber(number)
	require.NoError(t, err)
	assert.Equal(t, domain.DocSale, kind)
	assert.Equal(t, int64(42), value)

	assert.Equal(t, "PUR-1234567", domain.FormatDocumentNumber(domain.DocPurchase, 1234567))
}

func TestParseDocumentNumberErrors(t *testing.T) {
	for _, input := range []string{"", "SAL000001", "XYZ-000001", "SAL-abc", "PRV-000000"} {
		_, _, err := domain.ParseDocumentNumber(input)
		assert.Error(t, err, input)
	}
}

func TestDocumentKind_IsValidStatus(t *testing.T) {
	assert.True(t, domain.DocProvisional.IsValidStatus(domain.StatusPending))
	assert.False(t, domain.DocSale.IsValidStatus(domain.StatusPending))
	assert.False(t, domain.DocPurchase.IsValidStatus(domain.StatusConverted))
	assert.False(t, domain.DocSale.IsValidStatus("UNKNOWN"))
}

func TestProductIsLowStock(t *testing.T) {
	p := domain.Product{StockQuantity: decimal.NewFromInt(5), MinStock: decimal.NewFromInt(5)}
	assert.True(t, p.IsLowStock())
	p.StockQuantity = decimal.NewFromInt(6)
	assert.False(t, p.IsLowStock())
}

func TestLedgerSigns(t *testing.T) {
	amount := decimal.NewFromInt(100)
	assert.True(t, domain.Credit.Signed(amount).Equal(amount))
	assert.True(t, domain.Debit.Signed(amount).Equal(amount.Neg()))
	assert.True(t, domain.TreasuryTransferIn.Signed(amount).Equal(amount))
	assert.True(t, domain.TreasuryWithdrawal.Signed(amount).Equal(amount.Neg()))
}

func TestPermissionsAllow(t *testing.T) {
	assert.True(t, domain.PermissionsAllow([]domain.Permission{domain.PermAll}, domain.PermSalesApprove))
	assert.True(t, domain.PermissionsAllow([]domain.Permission{domain.PermSalesRead, domain.PermSalesApprove}, domain.PermSalesApprove))
	assert.False(t, domain.PermissionsAllow([]domain.Permission{domain.PermSalesRead}, domain.PermSalesApprove))
	assert.True(t, domain.Permission("sales:approve").IsKnown())
	assert.False(t, domain.Permission("sales:fly").IsKnown())
}
