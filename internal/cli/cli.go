// Package cli builds the erpctl maintenance command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ceramica/erp_backend/internal/maintenance"
	"github.com/ceramica/erp_backend/internal/platform/config"
	"github.com/ceramica/erp_backend/internal/platform/storage"
	"github.com/ceramica/erp_backend/internal/repositories/database/pgsql"
	"github.com/ceramica/erp_backend/internal/utils"
	"github.com/ceramica/erp_backend/pkg/database"
)

// NewRootCommand builds the root erpctl command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "erpctl",
		Short:         "Ceramica ERP maintenance scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("dry-run", false, "Report changes without writing them")

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newFixPermissionsCmd())
	root.AddCommand(newRepairSequencesCmd())
	root.AddCommand(newImportCostsCmd())
	root.AddCommand(newRebuildStockCmd())
	root.AddCommand(newRebuildBalancesCmd())
	return root
}

// Execute runs erpctl and prints a failure to stderr.
func Execute() error {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "فشل التنفيذ: %v\n", err)
		return err
	}
	return nil
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	run := func(direction database.Direction) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			steps, _ := cmd.Flags().GetInt("steps")
			result, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, direction, steps)
			if err != nil {
				return err
			}
			if result.NoChange {
				fmt.Fprintln(cmd.OutOrStdout(), "لا توجد ترحيلات جديدة")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "إصدار قاعدة البيانات الحالي: %s\n", utils.FormatCount(int(result.Version)))
			return nil
		}
	}

	upCmd := &cobra.Command{Use: "up", Short: "Apply migrations", Args: cobra.NoArgs, RunE: run(database.Up)}
	upCmd.Flags().Int("steps", 0, "Number of migrations to apply (0 applies all)")
	downCmd := &cobra.Command{Use: "down", Short: "Roll back migrations", Args: cobra.NoArgs, RunE: run(database.Down)}
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back")

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}

func newFixPermissionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fix-permissions <matrix.yaml> [companyID]",
		Short: "Replace role permissions with the given matrix",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			matrix, err := maintenance.ParsePermissionMatrix(f)
			if err != nil {
				return err
			}
			return withRunner(cmd, false, func(ctx context.Context, r *maintenance.Runner) error {
				_, err := r.FixPermissions(ctx, matrix, optionalArg(args, 1))
				return err
			})
		},
	}
}

func newRepairSequencesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair-sequences [companyID]",
		Short: "Move document sequences past the highest used number",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd, false, func(ctx context.Context, r *maintenance.Runner) error {
				_, err := r.RepairSequences(ctx, optionalArg(args, 0))
				return err
			})
		},
	}
}

func newImportCostsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-costs <file.csv|s3://bucket/key> [companyID]",
		Short: "Update product cost and sale prices from a CSV file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			return withRunner(cmd, strings.HasPrefix(source, "s3://"), func(ctx context.Context, r *maintenance.Runner) error {
				_, err := r.ImportCosts(ctx, source, optionalArg(args, 1))
				return err
			})
		},
	}
}

func newRebuildStockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild-stock [companyID]",
		Short: "Recompute product stock from stock movements",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd, false, func(ctx context.Context, r *maintenance.Runner) error {
				_, err := r.RebuildStock(ctx, optionalArg(args, 0))
				return err
			})
		},
	}
}

func newRebuildBalancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild-balances [companyID]",
		Short: "Recompute treasury and supplier balances from their ledgers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd, false, func(ctx context.Context, r *maintenance.Runner) error {
				_, err := r.RebuildBalances(ctx, optionalArg(args, 0))
				return err
			})
		},
	}
}

// withRunner connects to the database, builds a maintenance runner and runs fn.
// needObjects creates the S3 client for s3:// sources.
func withRunner(cmd *cobra.Command, needObjects bool, fn func(context.Context, *maintenance.Runner) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(pool)

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	opts := []maintenance.Option{
		maintenance.WithOutput(cmd.OutOrStdout()),
		maintenance.WithLogger(logger),
		maintenance.WithDryRun(dryRun),
	}
	if needObjects {
		objects, err := storage.NewS3Reader(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		opts = append(opts, maintenance.WithObjectReader(objects))
	}

	repos := pgsql.NewRepositoryProvider(pool)
	return fn(ctx, maintenance.NewRunner(repos.MaintenanceRepo, opts...))
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return strings.TrimSpace(args[i])
	}
	return ""
}
