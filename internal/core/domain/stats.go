package domain

import "github.com/shopspring/decimal"

// DashboardStats summarises a company's activity over a date range.
type DashboardStats struct {
	CompanyID               string          `json:"companyID"`
	Range                   DateRange       `json:"-"`
	SalesTotal              decimal.Decimal `json:"salesTotal"`
	SalesCount              int64           `json:"salesCount"`
	PurchasesTotal          decimal.Decimal `json:"purchasesTotal"`
	PurchasesCount          int64           `json:"purchasesCount"`
	GrossProfit             decimal.Decimal `json:"grossProfit"`
	TreasuryBalance         decimal.Decimal `json:"treasuryBalance"`
	Receivables             decimal.Decimal `json:"receivables"`
	Payables                decimal.Decimal `json:"payables"`
	LowStockCount           int64           `json:"lowStockCount"`
	PendingProvisionalCount int64           `json:"pendingProvisionalCount"`
	TopProducts             []TopProduct    `json:"topProducts"`
}

// TopProduct is a best seller by revenue in the stats range.
type TopProduct struct {
	ProductID string          `json:"productID"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}
