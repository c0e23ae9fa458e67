package cli

import (
	"fmt"
	"time"

	"github.com/amimagid/ami-super-app/internal/calendar"
	"github.com/amimagid/ami-super-app/internal/report"
	"github.com/amimagid/ami-super-app/internal/storage"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the health log report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			raw, _ := cmd.Flags().GetBool("raw")
			width, _ := cmd.Flags().GetInt("width")
			for _, d := range []string{from, to} {
				if d == "" {
					continue
				}
				if _, err := calendar.ParseDate(d); err != nil {
					return fmt.Errorf("invalid date %q, want YYYY-MM-DD", d)
				}
			}

			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.ListHealthEntries(ctx, storage.HealthFilter{From: from, To: to})
			if err != nil {
				return err
			}

			out, err := renderReport(report.Markdown(entries, time.Now()), raw, width)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().String("from", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "last date to include (YYYY-MM-DD)")
	cmd.Flags().Bool("raw", false, "print markdown without terminal styling")
	cmd.Flags().Int("width", 100, "word wrap width")
	return cmd
}

func renderReport(md string, raw bool, width int) (string, error) {
	if raw {
		return md, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	return r.Render(md)
}
