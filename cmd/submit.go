package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nbtools/ipclaunch/internal/config"
	"github.com/nbtools/ipclaunch/internal/directive"
	"github.com/nbtools/ipclaunch/internal/script"
	"github.com/nbtools/ipclaunch/internal/shell"
	"github.com/nbtools/ipclaunch/internal/submit"
	"github.com/nbtools/ipclaunch/internal/utils"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit [options]",
	Short: "Submit an IPyParallel cluster job",
	Long:  directive.Usage(),
	Example: `  ipclaunch submit                                  # 1 node, 1 engine, defaults
  ipclaunch submit -N 4 -t 60:00                    # 4 nodes, 4 engines, 1 hour
  ipclaunch submit -m tensorflow -e myenv -n 8      # modules + conda env`,
	// The directive grammar allows multi-value options like
	// "-m tensorflow numpy"; tokens pass through to the resolver untouched.
	DisableFlagParsing: true,
	Run:                runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) {
	// DisableFlagParsing also bypasses the persistent --debug flag, so
	// peel it off here before the directive tokens reach the resolver.
	// The invoking shell already word-split argv; re-quote each token so
	// values with spaces survive the round trip through the raw line.
	words := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--debug" {
			utils.DebugMode = true
			config.Global.Debug = true
			continue
		}
		words = append(words, script.Quote(a))
	}

	resolver := directive.NewResolver(os.Stdout)
	resolved, err := resolver.Resolve(strings.Join(words, " "))
	if err != nil {
		// Same recovery as the notebook magic: report, show usage, no job.
		// Both halves go to the same stream as the resolver's help output.
		reportInvalidSyntax(os.Stdout)
		return
	}
	if resolved == nil {
		// Help or version request, already answered.
		return
	}

	if config.IsInsideJob() {
		utils.PrintWarning("Already inside a SLURM allocation; submitting will nest jobs.")
	}

	submitter := submit.New(&shell.LocalRunner{Shell: config.Global.ShellBin}, &config.Global)
	handle, err := submitter.Submit(resolved)
	if err != nil {
		utils.PrintError("%v", err)
		os.Exit(1)
	}

	// The submission API is fire-and-forget; the one-shot CLI must outlive
	// the scheduler command or its scripts vanish mid-allocation.
	handle.Wait()
}

// reportInvalidSyntax prints the parse-failure notice and the usage text as
// one message on a single stream.
func reportInvalidSyntax(w io.Writer) {
	fmt.Fprintln(w, "Invalid syntax.")
	fmt.Fprint(w, directive.Usage())
}
