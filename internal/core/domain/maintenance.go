package domain

import "github.com/shopspring/decimal"

// PermissionDiff reports how a role's permission rows changed.
type PermissionDiff struct {
	Role    CompanyRole
	Added   []Permission
	Removed []Permission
}

// SequenceState compares a document sequence with the numbers actually used.
type SequenceState struct {
	CompanyID string
	Kind      DocumentKind
	LastValue int64 // 0 when no sequence row exists
	MaxUsed   int64
	Exists    bool
}

// NeedsRepair reports whether the next allocated number could collide with an existing document.
func (s SequenceState) NeedsRepair() bool {
	return s.LastValue < s.MaxUsed
}

// BalanceDrift compares a stored balance with the value recomputed from its ledger.
type BalanceDrift struct {
	CompanyID string
	EntityID  string
	Label     string
	Recorded  decimal.Decimal
	Computed  decimal.Decimal
}

// Difference is computed minus recorded.
func (d BalanceDrift) Difference() decimal.Decimal {
	return d.Computed.Sub(d.Recorded)
}
