package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/waytrace/waytrace/internal"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <trace.db> [matcher]",
	Short: "Run a matcher over a recorded trace",
	Long: `Replay a trace recorded with --record through fresh object tables and
print every message matching the given expression. With no expression,
every message is printed.

Examples:
  waytrace query trace.db
  waytrace query trace.db "wl_surface.commit"
  waytrace query trace.db "wl_pointer | wl_keyboard"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		matcher := internal.Always
		if len(args) > 1 {
			m, err := internal.ParseMatcher(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			matcher = m.Simplify()
			internal.LogInfo("Query matcher: %s", matcher)
		}

		store, err := internal.OpenStore(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		records, err := store.Records()
		if err != nil {
			return err
		}

		renderer := internal.NewRenderer(os.Stdout)
		session := internal.NewSession(matcher, internal.Never, catalog, renderer)
		internal.ReplayRecords(session, records)

		fmt.Println()
		for _, conn := range session.Connections() {
			fmt.Println(internal.RenderConnectionSummary(conn))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
