package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DocumentStatus is the lifecycle state of a sale, purchase or provisional sale.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "DRAFT"
	StatusPending   DocumentStatus = "PENDING"
	StatusApproved  DocumentStatus = "APPROVED"
	StatusConverted DocumentStatus = "CONVERTED"
	StatusCancelled DocumentStatus = "CANCELLED"
)

// DocumentKind identifies a numbered document family.
type DocumentKind string

const (
	DocSale        DocumentKind = "SALE"
	DocPurchase    DocumentKind = "PURCHASE"
	DocProvisional DocumentKind = "PROVISIONAL"
)

// DocumentKinds lists every numbered document family.
var DocumentKinds = []DocumentKind{DocSale, DocPurchase, DocProvisional}

var documentPrefixes = map[DocumentKind]string{
	DocSale:        "SAL",
	DocPurchase:    "PUR",
	DocProvisional: "PRV",
}

var invoiceTransitions = map[DocumentStatus][]DocumentStatus{
	StatusDraft:    {StatusApproved, StatusCancelled},
	StatusApproved: {StatusCancelled},
}

var provisionalTransitions = map[DocumentStatus][]DocumentStatus{
	StatusDraft:    {StatusPending, StatusCancelled},
	StatusPending:  {StatusApproved, StatusConverted, StatusCancelled},
	StatusApproved: {StatusConverted, StatusCancelled},
}

// CanTransition reports whether a document of kind k may move from one status to another.
func (k DocumentKind) CanTransition(from, to DocumentStatus) bool {
	table := invoiceTransitions
	if k == DocProvisional {
		table = provisionalTransitions
	}
	for _, allowed := range table[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is a status documents of kind k can hold.
func (k DocumentKind) IsValidStatus(s DocumentStatus) bool {
	switch s {
	case StatusDraft, StatusApproved, StatusCancelled:
		return true
	case StatusPending, StatusConverted:
		return k == DocProvisional
	default:
		return false
	}
}

// Prefix returns the number prefix for the kind.
func (k DocumentKind) Prefix() string {
	return documentPrefixes[k]
}

// FormatDocumentNumber renders a sequence value as e.g. SAL-000042.
func FormatDocumentNumber(kind DocumentKind, value int64) string {
	return fmt.Sprintf("%s-%06d", kind.Prefix(), value)
}

// ParseDocumentNumber extracts the kind and sequence value from a formatted number.
func ParseDocumentNumber(number string) (DocumentKind, int64, error) {
	prefix, digits, ok := strings.Cut(strings.TrimSpace(number), "-")
	if !ok {
		return "", 0, fmt.Errorf("document number %q has no prefix separator", number)
	}
	var kind DocumentKind
	for k, p := range documentPrefixes {
		if p == prefix {
			kind = k
		}
	}
	if kind == "" {
		return "", 0, fmt.Errorf("unknown document prefix %q", prefix)
	}
	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || value <= 0 {
		return "", 0, fmt.Errorf("invalid sequence in document number %q", number)
	}
	return kind, value, nil
}

// DocumentSequence holds the last number allocated for a company and kind.
type DocumentSequence struct {
	CompanyID string       `json:"companyID"`
	Kind      DocumentKind `json:"kind"`
	LastValue int64        `json:"lastValue"`
}
