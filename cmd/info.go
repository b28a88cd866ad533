package cmd

import (
	"fmt"

	"github.com/nbtools/ipclaunch/internal/config"
	"github.com/nbtools/ipclaunch/internal/utils"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display scheduler and configuration information",
	Long: `Display the effective configuration and the detected SLURM client binaries.

Shows the scratch root for generated scripts, the submit mode, the controller
network interface, and whether the current shell is already inside a job.`,
	Example: `  ipclaunch info           # Show configuration and scheduler status`,
	Run:     runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	// Structured output, no [IPC] prefix
	fmt.Println("Configuration:")
	if config.Global.ScratchDir != "" {
		fmt.Printf("  Scratch Root:  %s\n", utils.StylePath(config.Global.ScratchDir))
	} else {
		fmt.Printf("  Scratch Root:  %s\n", utils.StyleError("not set"))
	}
	fmt.Printf("  Submit Mode:   %s\n", utils.StyleInfo(config.Global.SubmitMode))
	fmt.Printf("  Interface:     %s\n", utils.StyleInfo(config.Global.NetworkInterface))
	fmt.Printf("  Shell:         %s\n", utils.StyleCommand(config.Global.ShellBin))

	if path, err := config.GetUserConfigPath(); err == nil {
		fmt.Printf("  Config File:   %s\n", utils.StylePath(path))
	}

	fmt.Println()
	fmt.Println("Scheduler Binaries:")
	printBin("salloc", config.Global.SallocBin)
	printBin("sbatch", config.Global.SbatchBin)
	printBin("srun", config.Global.SrunBin)

	if config.IsInsideJob() {
		fmt.Println()
		fmt.Printf("Status: %s\n", utils.StyleWarning("inside a SLURM allocation"))
		fmt.Println("Submitting from here would nest allocations.")
	}

	if config.Global.ScratchDir == "" {
		fmt.Println()
		utils.PrintWarning("No scratch directory configured. Set $SCRATCH or scratch_dir in the config file.")
	}
}

func printBin(name, path string) {
	if path != "" {
		fmt.Printf("  %-8s %s\n", name+":", utils.StylePath(path))
	} else {
		fmt.Printf("  %-8s %s\n", name+":", utils.StyleError("not found"))
	}
}
