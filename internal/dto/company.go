package dto

import (
	"time"

	"github.com/ceramica/erp_backend/internal/core/domain"
)

// CreateCompanyRequest defines the data needed to create a company.
type CreateCompanyRequest struct {
	Name         string `json:"name" binding:"required,max=150"`
	Description  string `json:"description"`
	Phone        string `json:"phone" binding:"max=30"`
	Address      string `json:"address"`
	TaxNumber    string `json:"taxNumber" binding:"max=50"`
	CurrencyCode string `json:"currencyCode" binding:"omitempty,len=3"`
}

// UpdateCompanyRequest uses pointers to distinguish omitted fields from zero values.
type UpdateCompanyRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=150"`
	Description  *string `json:"description"`
	Phone        *string `json:"phone" binding:"omitempty,max=30"`
	Address      *string `json:"address"`
	TaxNumber    *string `json:"taxNumber" binding:"omitempty,max=50"`
	CurrencyCode *string `json:"currencyCode" binding:"omitempty,len=3"`
}

// ListCompaniesParams defines query parameters for listing the caller's companies.
type ListCompaniesParams struct {
	IncludeDisabled bool `form:"includeDisabled"`
}

// AddMemberRequest adds an existing user, by username, to a company.
type AddMemberRequest struct {
	Username string             `json:"username" binding:"required"`
	Role     domain.CompanyRole `json:"role" binding:"required,oneof=ADMIN MANAGER CASHIER READONLY"`
}

// UpdateMemberRoleRequest changes the role of a member.
type UpdateMemberRoleRequest struct {
	Role domain.CompanyRole `json:"role" binding:"required,oneof=ADMIN MANAGER CASHIER READONLY"`
}

// MemberResponse is one row of the company member list.
type MemberResponse struct {
	UserID   string             `json:"userID"`
	UserName string             `json:"userName"`
	Role     domain.CompanyRole `json:"role"`
	JoinedAt time.Time          `json:"joinedAt"`
}

// ToMemberResponses converts memberships to their API representation.
func ToMemberResponses(members []domain.UserCompany) []MemberResponse {
	res := make([]MemberResponse, len(members))
	for i, m := range members {
		res[i] = MemberResponse{UserID: m.UserID, UserName: m.UserName, Role: m.Role, JoinedAt: m.JoinedAt}
	}
	return res
}
