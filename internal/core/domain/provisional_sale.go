package domain

import (
	"github.com/shopspring/decimal"
)

// ProvisionalSource tells where a provisional sale was entered.
type ProvisionalSource string

const (
	SourceInternal      ProvisionalSource = "INTERNAL"
	SourceExternalStore ProvisionalSource = "EXTERNAL_STORE"
)

// ProvisionalSale is a quotation or pending invoice that does not touch stock or money
// until it is converted into a sale.
type ProvisionalSale struct {
	ProvisionalSaleID string                `json:"provisionalSaleID"`
	CompanyID         string                `json:"companyID"`
	Number            string                `json:"number"`
	Source            ProvisionalSource     `json:"source"`
	StoreID           *string               `json:"storeID,omitempty"`
	ContactID         *string               `json:"contactID,omitempty"`
	CustomerName      string                `json:"customerName"`
	Status            DocumentStatus        `json:"status"`
	Lines             []ProvisionalSaleLine `json:"lines"`
	Subtotal          decimal.Decimal       `json:"subtotal"`
	Discount          decimal.Decimal       `json:"discount"`
	Total             decimal.Decimal       `json:"total"`
	Notes             string                `json:"notes"`
	ConvertedSaleID   *string               `json:"convertedSaleID,omitempty"`
	AuditFields
}

// IsTerminal reports whether no further transition is possible.
func (p ProvisionalSale) IsTerminal() bool {
	return p.Status == StatusConverted || p.Status == StatusCancelled
}

// SaleLines copies the lines for the sale saleID. newID supplies fresh line ids.
func (p ProvisionalSale) SaleLines(saleID string, newID func() string) []SaleLine {
	lines := make([]SaleLine, len(p.Lines))
	for i, l := range p.Lines {
		lines[i] = SaleLine{
			LineID:      newID(),
			SaleID:      saleID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			SKU:         l.SKU,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		}
	}
	return lines
}

// ProvisionalSaleLine is one product row of a provisional sale.
type ProvisionalSaleLine struct {
	LineID            string          `json:"lineID"`
	ProvisionalSaleID string          `json:"provisionalSaleID"`
	ProductID         string          `json:"productID"`
	ProductName       string          `json:"productName"`
	SKU               string          `json:"sku"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	LineTotal         decimal.Decimal `json:"lineTotal"`
}

// ProvisionalSaleFilter narrows provisional sale listings.
type ProvisionalSaleFilter struct {
	Status  *DocumentStatus
	Source  *ProvisionalSource
	StoreID *string
}
