package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/waytrace/waytrace/internal"
)

var (
	verbose       bool
	loadPath      string
	filterExpr    string
	breakExpr     string
	recordPath    string
	protocolsPath string
	suppress      bool
	forceColor    bool
	noColor       bool
	version       string = "dev"
	commit        string = "unknown"
	date          string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "waytrace",
	Short: "Debug Wayland protocol traces",
	Long: `waytrace reads the textual output of WAYLAND_DEBUG=1, reconstructs the
live object graph it implies, and lets you filter, break on and query
protocol messages interactively.

Typical usage:
  WAYLAND_DEBUG=1 program 2>&1 1>/dev/null | waytrace
  waytrace --load trace.txt --filter wl_surface --break wl_surface.destroy
  waytrace --load trace.txt --record trace.db
  waytrace query trace.db "wl_pointer | wl_keyboard"

Filter and break expressions use the matcher syntax; run
"waytrace matchers" for the full grammar.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
		if noColor {
			if forceColor {
				internal.LogWarn("Ignoring --color, since --no-color was also specified")
			}
			internal.SetColorEnabled(false)
		} else if forceColor {
			internal.SetColorEnabled(true)
		} else if !isatty.IsTerminal(os.Stdout.Fd()) {
			internal.SetColorEnabled(false)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDebugger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&forceColor, "color", "c", false, "Force color output")
	rootCmd.PersistentFlags().BoolVarP(&noColor, "no-color", "C", false, "Disable color output")
	rootCmd.PersistentFlags().StringVar(&protocolsPath, "protocols", "", "Protocol catalog YAML (defaults to the embedded catalog)")

	rootCmd.Flags().StringVarP(&loadPath, "load", "l", "", "Load trace from a file instead of stdin")
	rootCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "Only show matching messages (see 'waytrace matchers')")
	rootCmd.Flags().StringVarP(&breakExpr, "break", "b", "", "Stop on matching messages (see 'waytrace matchers')")
	rootCmd.Flags().StringVar(&recordPath, "record", "", "Record decoded messages to a SQLite database")
	rootCmd.Flags().BoolVarP(&suppress, "suppress", "s", false, "Suppress non-protocol output of the traced program")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadCatalog resolves the --protocols flag.
func loadCatalog() (internal.Catalog, error) {
	if protocolsPath == "" {
		catalog := internal.DefaultCatalog()
		internal.LogDebug("Using embedded protocol catalog (%s)", catalog.CatalogSummary())
		return catalog, nil
	}
	catalog, err := internal.LoadCatalog(protocolsPath)
	if err != nil {
		return nil, err
	}
	internal.LogInfo("Loaded protocol catalog %s (%s)", protocolsPath, catalog.CatalogSummary())
	return catalog, nil
}

// compileMatcher parses a flag expression, falling back to the given
// identity when the expression is malformed. Mirrors the interactive
// behavior: a bad matcher is reported and the previous one kept.
func compileMatcher(expr string, fallback internal.Matcher, label string) internal.Matcher {
	if expr == "" {
		return fallback
	}
	m, err := internal.ParseMatcher(expr)
	if err != nil {
		internal.LogError("%v", err)
		return fallback
	}
	m = m.Simplify()
	internal.LogInfo("%s matcher: %s", label, m)
	return m
}

func runDebugger() error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	filter := compileMatcher(filterExpr, internal.Always, "filter")
	stop := compileMatcher(breakExpr, internal.Never, "break")

	var input io.ReadCloser
	interactive := false
	if loadPath != "" {
		f, err := os.Open(loadPath)
		if err != nil {
			return fmt.Errorf("failed to open trace: %w", err)
		}
		input = f
		interactive = isatty.IsTerminal(os.Stdin.Fd())
		internal.LogInfo("Opening %s", loadPath)
	} else {
		// The trace occupies stdin, so there is no terminal left to
		// prompt on; breakpoints would deadlock the pipe.
		if breakExpr != "" {
			internal.LogWarn("Ignoring break matcher when stdin is used for messages")
			stop = internal.Never
		}
		input = os.Stdin
		internal.LogInfo("Getting input piped from stdin")
	}
	defer input.Close()

	var recorder *internal.TraceStore
	if recordPath != "" {
		recorder, err = internal.CreateStore(recordPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := recorder.Close(); err != nil {
				internal.LogWarn("Failed to close record database: %v", err)
			}
		}()
	}

	renderer := internal.NewRenderer(os.Stdout)
	session := internal.NewSession(filter, stop, catalog, renderer)

	var shell *internal.Shell
	if interactive {
		shell = internal.NewShell(session, os.Stdin, os.Stdout)
	}

	return runTrace(session, internal.NewDecoder(input), shell, recorder)
}

// runTrace pumps decoded records through the session, one at a time.
// The shell (when present) takes over between records whenever the
// session stops; quit is honored at the same boundary.
func runTrace(session *internal.Session, dec *internal.Decoder, shell *internal.Shell, recorder *internal.TraceStore) error {
	known := make(map[internal.ConnectionID]bool)
	var lastTime float64

	for !session.Quit() {
		rec, raw, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			internal.LogError("%v", err)
			continue
		}
		if rec == nil {
			if !suppress && raw != "" {
				fmt.Println(raw)
			}
			continue
		}

		if !known[rec.Conn] {
			known[rec.Conn] = true
			if err := session.OpenConnection(rec.Conn, internal.RoleUnknown, rec.Timestamp); err != nil {
				internal.LogWarn("%v", err)
			}
		}
		lastTime = rec.Timestamp

		if recorder != nil {
			if err := recorder.Append(rec); err != nil {
				internal.LogWarn("%v", err)
			}
		}

		if err := session.Message(rec.Conn, rec); err != nil {
			internal.LogWarn("%v", err)
		}

		if session.Stopped() {
			if shell != nil {
				if err := shell.Run(); err != nil {
					return err
				}
			} else {
				internal.LogWarn("Break matched but no interactive terminal, continuing")
				if err := session.Command("continue"); err != nil {
					internal.LogWarn("%v", err)
				}
			}
		}
	}

	for id := range known {
		if err := session.CloseConnection(id, lastTime); err != nil {
			internal.LogWarn("%v", err)
		}
	}
	internal.LogInfo("Done")
	return nil
}
