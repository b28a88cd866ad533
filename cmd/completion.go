package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// detectShell auto-detects the current shell from environment
func detectShell() string {
	shell := strings.ToLower(os.Getenv("SHELL"))

	if strings.Contains(shell, "fish") {
		return "fish"
	}
	if strings.Contains(shell, "zsh") {
		return "zsh"
	}
	if strings.Contains(shell, "pwsh") || strings.Contains(shell, "powershell") {
		return "powershell"
	}

	// Default to bash
	return "bash"
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: func() string {
		detected := detectShell()
		return `Generate shell completion script for ipclaunch.

If no shell is specified, ` + detected + ` will be used (auto-detected from $SHELL).

To load completions:

Bash:
  $ source <(ipclaunch completion bash)

  # To load completions for each session, execute once:
  $ ipclaunch completion bash > /etc/bash_completion.d/ipclaunch

Zsh:
  $ ipclaunch completion zsh > "${fpath[1]}/_ipclaunch"

Fish:
  $ ipclaunch completion fish | source

PowerShell:
  PS> ipclaunch completion powershell | Out-String | Invoke-Expression
`
	}(),
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		shell := detectShell()
		if len(args) > 0 {
			shell = args[0]
		}

		switch shell {
		case "bash":
			cmd.Root().GenBashCompletionV2(os.Stdout, true)
		case "zsh":
			cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
