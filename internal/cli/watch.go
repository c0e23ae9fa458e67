package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/amimagid/ami-super-app/internal/watcher"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Import health log files dropped into the inbox directory",
		Long: `Watch the inbox directory and import every file matching the pattern.
Imported files are moved to processed/, rejected ones to failed/.

Examples:
  superapp watch
  superapp watch --dir ~/Downloads/health --pattern "health-*.csv"
  superapp watch --once`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := importOptions(cmd)
			if err != nil {
				return err
			}
			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				dir = a.cfg.Storage.InboxDirectory
			}
			pattern, _ := cmd.Flags().GetString("pattern")
			if pattern == "" {
				pattern = a.cfg.Import.WatchPattern
			}
			once, _ := cmd.Flags().GetBool("once")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			mgr, err := a.newImportManager(store)
			if err != nil {
				return err
			}
			w, err := watcher.New(dir, pattern, mgr, a.log)
			if err != nil {
				return err
			}
			w.SetOptions(opts)

			out := cmd.OutOrStdout()
			results := make(chan watcher.Result)
			w.Results = results
			done := make(chan struct{})
			go func() {
				defer close(done)
				for res := range results {
					name := filepath.Base(res.Path)
					if res.Error != nil {
						fmt.Fprintf(out, "%s %s: %v\n", errorStyle.Render("✗"), name, res.Error)
						continue
					}
					fmt.Fprintf(out, "%s %s: %d inserted, %d updated, %d skipped\n",
						successStyle.Render("✓"), name, res.Job.Inserted, res.Job.Updated, res.Job.Skipped)
				}
			}()

			if once {
				_, err = w.Scan(ctx)
			} else {
				fmt.Fprintln(out, box("Watching inbox",
					field{"Dir", w.Dir()},
					field{"Pattern", pattern},
				))
				err = w.Run(ctx)
			}
			close(results)
			<-done
			return err
		},
	}
	addImportFlags(cmd.Flags())
	cmd.Flags().String("dir", "", "inbox directory (default: config Storage.InboxDirectory)")
	cmd.Flags().String("pattern", "", `glob of files to import, e.g. "*.csv" (default: config Import.WatchPattern)`)
	cmd.Flags().Bool("once", false, "import the files already in the inbox and exit")
	return cmd
}
