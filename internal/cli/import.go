package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/amimagid/ami-super-app/internal/upload"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func addImportFlags(fs *pflag.FlagSet) {
	fs.String("format", "", "force a parser: health_csv, legacy_csv or xlsx (default: detect)")
	fs.String("on-duplicate", "", "what to do with a date already logged: upsert, append or skip (default: config)")
}

// importOptions reads the shared import flags.
func importOptions(cmd *cobra.Command) (upload.Options, error) {
	format, _ := cmd.Flags().GetString("format")
	dup, _ := cmd.Flags().GetString("on-duplicate")
	policy, err := models.ParseDuplicatePolicy(dup, "")
	if err != nil {
		return upload.Options{}, err
	}
	return upload.Options{Format: format, Policy: policy}, nil
}

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a health log CSV or XLSX file",
		Long: `Import a health log export into the database in one transaction.

Examples:
  superapp import health.csv
  superapp import old-sheet.csv --format legacy_csv --on-duplicate skip
  superapp import health.xlsx --replace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := importOptions(cmd)
			if err != nil {
				return err
			}
			opts.Replace, _ = cmd.Flags().GetBool("replace")

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			mgr, err := a.newImportManager(store)
			if err != nil {
				return err
			}
			job, err := mgr.Import(ctx, filepath.Base(args[0]), data, opts)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), importSummary(job))
			return nil
		},
	}
	addImportFlags(cmd.Flags())
	cmd.Flags().Bool("replace", false, "delete all existing entries first, in the same transaction")
	return cmd
}

func importSummary(job *models.ImportJob) string {
	title := successStyle.Render("Import complete")
	if job.Skipped > 0 || job.Coerced > 0 {
		title = warnStyle.Render("Import complete with warnings")
	}
	return box(title,
		field{"File", job.FileName},
		field{"Parser", job.Parser},
		field{"Policy", job.Policy},
		field{"Parsed", job.Parsed},
		field{"Inserted", job.Inserted},
		field{"Updated", job.Updated},
		field{"Skipped", job.Skipped},
		field{"Coerced", job.Coerced},
	)
}
