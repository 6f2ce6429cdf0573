package maintenance

import (
	"context"

	"github.com/ceramica/erp_backend/internal/core/domain"
)

// RepairSequences moves every sequence that is behind the highest used document number
// up to that number. Sequences that are ahead are left alone.
func (r *Runner) RepairSequences(ctx context.Context, companyID string) ([]domain.SequenceState, error) {
	companies, err := r.repo.ListCompanyIDs(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var repaired []domain.SequenceState
	for _, id := range companies {
		states, err := r.repo.ListSequenceStates(ctx, id)
		if err != nil {
			r.logger.Error("Failed to read sequences", "error", err, "company_id", id)
			return repaired, err
		}
		for _, s := range states {
			if !s.NeedsRepair() {
				continue
			}
			if !r.dryRun {
				if err := r.repo.SetSequenceValue(ctx, id, s.Kind, s.MaxUsed); err != nil {
					r.logger.Error("Failed to set sequence", "error", err, "company_id", id, "kind", s.Kind)
					return repaired, err
				}
			}
			r.printf("  الشركة %s: تسلسل %s من %s إلى %s", id, s.Kind.Prefix(), count(int(s.LastValue)), count(int(s.MaxUsed)))
			repaired = append(repaired, s)
		}
	}

	r.printf("تم فحص %s شركة وإصلاح %s تسلسل%s", count(len(companies)), count(len(repaired)), r.modeNote())
	return repaired, nil
}
