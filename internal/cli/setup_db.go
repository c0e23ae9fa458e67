package cli

import (
	"fmt"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/amimagid/ami-super-app/internal/parser"
	"github.com/amimagid/ami-super-app/internal/storage"
	"github.com/spf13/cobra"
)

func newSetupDBCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup-db",
		Short: "Run migrations and install the default work domains and members",
		Long: `Run database migrations, then create every work domain and team member
of the seed that does not exist yet. Existing rows are left untouched, so the
command is safe to re-run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seedFile, _ := cmd.Flags().GetString("seed")

			var (
				seed *models.Seed
				err  error
			)
			if seedFile != "" {
				seed, err = parser.ParseSeed(seedFile)
			} else {
				seed, err = storage.DefaultSeed()
			}
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := store.ApplySeed(ctx, seed)
			if err != nil {
				return fmt.Errorf("failed to seed database: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), box(successStyle.Render("Database ready"),
				field{"Driver", store.Driver()},
				field{"Domains", fmt.Sprintf("%d new / %d in seed", res.DomainsCreated, len(seed.Domains))},
				field{"Members", fmt.Sprintf("%d new / %d in seed", res.MembersCreated, len(seed.Members))},
			))
			return nil
		},
	}
	cmd.Flags().String("seed", "", "YAML seed file (default: built-in seed)")
	return cmd
}
