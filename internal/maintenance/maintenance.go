// Package maintenance implements the repair and import jobs run through erpctl.
// Every job is idempotent: a second run over unchanged data reports no changes.
package maintenance

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	"github.com/ceramica/erp_backend/internal/platform/storage"
	"github.com/ceramica/erp_backend/internal/utils"
)

// Runner executes maintenance jobs against the repository and prints Arabic progress lines.
type Runner struct {
	repo    portsrepo.MaintenanceRepository
	objects storage.ObjectReader
	out     io.Writer
	logger  *slog.Logger
	dryRun  bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets where progress and summary lines are written. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithLogger sets the structured logger used for failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithObjectReader enables s3:// sources.
func WithObjectReader(objects storage.ObjectReader) Option {
	return func(r *Runner) {
		r.objects = objects
	}
}

// WithDryRun reports what would change without writing.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) {
		r.dryRun = dryRun
	}
}

func NewRunner(repo portsrepo.MaintenanceRepository, opts ...Option) *Runner {
	r := &Runner{
		repo:   repo,
		out:    os.Stdout,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// modeNote is appended to summaries so a dry run is never mistaken for a real one.
func (r *Runner) modeNote() string {
	if r.dryRun {
		return " (تشغيل تجريبي، لم يتم حفظ أي تغيير)"
	}
	return ""
}

func count(n int) string {
	return utils.FormatCount(n)
}

func formatAmount(d decimal.Decimal) string {
	return utils.FormatAmount(d)
}
