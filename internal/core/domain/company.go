package domain

import "time"

// Company is an isolated tenant owning products, treasuries, partners and documents.
type Company struct {
	CompanyID    string `json:"companyID"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	TaxNumber    string `json:"taxNumber"`
	CurrencyCode string `json:"currencyCode"` // e.g. "EGP"
	IsActive     bool   `json:"isActive"`
	AuditFields
}

// CompanyRole defines the possible roles a user can have within a company.
type CompanyRole string

const (
	RoleAdmin    CompanyRole = "ADMIN"
	RoleManager  CompanyRole = "MANAGER"
	RoleCashier  CompanyRole = "CASHIER"
	RoleReadOnly CompanyRole = "READONLY"
	RoleRemoved  CompanyRole = "REMOVED" // membership kept for audit history
)

// AssignableRoles lists the roles an admin may grant.
var AssignableRoles = []CompanyRole{RoleAdmin, RoleManager, RoleCashier, RoleReadOnly}

// IsAssignable reports whether r can be granted through the membership API.
func (r CompanyRole) IsAssignable() bool {
	for _, role := range AssignableRoles {
		if r == role {
			return true
		}
	}
	return false
}

// UserCompany represents the membership of a User in a Company.
type UserCompany struct {
	UserID    string      `json:"userID"`
	UserName  string      `json:"userName"`
	CompanyID string      `json:"companyID"`
	Role      CompanyRole `json:"role"`
	JoinedAt  time.Time   `json:"joinedAt"`
}
