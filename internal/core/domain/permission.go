package domain

// Permission is a "<resource>:<action>" capability checked before every company-scoped operation.
type Permission string

const (
	PermAll Permission = "*"

	PermCompanyManage Permission = "company:manage"
	PermMembersManage Permission = "members:manage"

	PermProductsRead  Permission = "products:read"
	PermProductsWrite Permission = "products:write"
	PermStockAdjust   Permission = "stock:adjust"

	PermTreasuryRead  Permission = "treasury:read"
	PermTreasuryWrite Permission = "treasury:write"

	PermSuppliersRead  Permission = "suppliers:read"
	PermSuppliersWrite Permission = "suppliers:write"
	PermSuppliersPay   Permission = "suppliers:pay"

	PermContactsRead    Permission = "contacts:read"
	PermContactsWrite   Permission = "contacts:write"
	PermContactsCollect Permission = "contacts:collect"

	PermSalesRead    Permission = "sales:read"
	PermSalesWrite   Permission = "sales:write"
	PermSalesApprove Permission = "sales:approve"
	PermSalesCancel  Permission = "sales:cancel"

	PermPurchasesRead    Permission = "purchases:read"
	PermPurchasesWrite   Permission = "purchases:write"
	PermPurchasesApprove Permission = "purchases:approve"
	PermPurchasesCancel  Permission = "purchases:cancel"

	PermProvisionalRead    Permission = "provisional:read"
	PermProvisionalWrite   Permission = "provisional:write"
	PermProvisionalApprove Permission = "provisional:approve"
	PermProvisionalConvert Permission = "provisional:convert"

	PermStoresManage Permission = "stores:manage"
	PermStatsRead    Permission = "stats:read"
)

// AllPermissions is the catalogue of grantable permissions.
var AllPermissions = []Permission{
	PermCompanyManage, PermMembersManage,
	PermProductsRead, PermProductsWrite, PermStockAdjust,
	PermTreasuryRead, PermTreasuryWrite,
	PermSuppliersRead, PermSuppliersWrite, PermSuppliersPay,
	PermContactsRead, PermContactsWrite, PermContactsCollect,
	PermSalesRead, PermSalesWrite, PermSalesApprove, PermSalesCancel,
	PermPurchasesRead, PermPurchasesWrite, PermPurchasesApprove, PermPurchasesCancel,
	PermProvisionalRead, PermProvisionalWrite, PermProvisionalApprove, PermProvisionalConvert,
	PermStoresManage, PermStatsRead,
}

// IsKnown reports whether p is "*" or part of the catalogue.
func (p Permission) IsKnown() bool {
	if p == PermAll {
		return true
	}
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// RolePermission grants a permission to a role, globally when CompanyID is nil.
type RolePermission struct {
	CompanyID  *string     `json:"companyID,omitempty"`
	Role       CompanyRole `json:"role"`
	Permission Permission  `json:"permission"`
}

// PermissionsAllow reports whether the granted set contains p or the wildcard.
func PermissionsAllow(granted []Permission, p Permission) bool {
	for _, g := range granted {
		if g == PermAll || g == p {
			return true
		}
	}
	return false
}
