package maintenance

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ceramica/erp_backend/internal/core/domain"
)

// PermissionMatrix is the YAML document read by fix-permissions:
//
//	roles:
//	  MANAGER: [sales:read, sales:write]
//	  CASHIER: [sales:read]
type PermissionMatrix struct {
	Roles map[string][]string `yaml:"roles"`
}

// ParsePermissionMatrix decodes and validates a matrix. Unknown roles or permissions
// fail here, before anything touches the database.
func ParsePermissionMatrix(r io.Reader) (map[domain.CompanyRole][]domain.Permission, error) {
	var raw PermissionMatrix
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("ملف الصلاحيات غير صالح: %w", err)
	}
	if len(raw.Roles) == 0 {
		return nil, fmt.Errorf("ملف الصلاحيات لا يحتوي على أي دور")
	}

	matrix := make(map[domain.CompanyRole][]domain.Permission, len(raw.Roles))
	for name, perms := range raw.Roles {
		role := domain.CompanyRole(strings.ToUpper(strings.TrimSpace(name)))
		if !role.IsAssignable() {
			return nil, fmt.Errorf("الدور %q غير معروف", name)
		}
		if _, dup := matrix[role]; dup {
			return nil, fmt.Errorf("الدور %s مكرر في الملف", role)
		}
		list := make([]domain.Permission, 0, len(perms))
		for _, p := range perms {
			perm := domain.Permission(strings.TrimSpace(p))
			if !perm.IsKnown() {
				return nil, fmt.Errorf("الصلاحية %q للدور %s غير معروفة", p, role)
			}
			if !slices.Contains(list, perm) {
				list = append(list, perm)
			}
		}
		matrix[role] = list
	}
	return matrix, nil
}

// FixPermissions makes the stored permissions of each role in the matrix match it exactly.
// With an empty companyID the global defaults are replaced. A company role with no rows
// falls back to the global defaults, so a company-scoped matrix may not empty a role.
func (r *Runner) FixPermissions(ctx context.Context, matrix map[domain.CompanyRole][]domain.Permission, companyID string) ([]domain.PermissionDiff, error) {
	var scope *string
	if companyID != "" {
		roles := make([]domain.CompanyRole, 0, len(matrix))
		for role, perms := range matrix {
			if len(perms) == 0 {
				roles = append(roles, role)
			}
		}
		if len(roles) > 0 {
			slices.Sort(roles)
			return nil, fmt.Errorf("لا يمكن إفراغ صلاحيات الدور %s على مستوى الشركة لأنه سيعود إلى الصلاحيات الافتراضية", roles[0])
		}
		if _, err := r.repo.ListCompanyIDs(ctx, companyID); err != nil {
			return nil, err
		}
		scope = &companyID
		r.printf("تحديث صلاحيات الشركة %s", companyID)
	} else {
		r.printf("تحديث الصلاحيات الافتراضية لجميع الشركات")
	}

	diffs, err := r.repo.ReplaceRolePermissions(ctx, scope, matrix, r.dryRun)
	if err != nil {
		r.logger.Error("Failed to replace role permissions", "error", err, "company_id", companyID)
		return nil, err
	}

	changed := 0
	for _, d := range diffs {
		if len(d.Added) > 0 || len(d.Removed) > 0 {
			changed++
		}
		r.printf("  الدور %s: أضيفت %s، حذفت %s", d.Role, count(len(d.Added)), count(len(d.Removed)))
	}
	r.printf("تم تحديث %s من %s أدوار%s", count(changed), count(len(diffs)), r.modeNote())
	return diffs, nil
}
