package cmd

import (
	"fmt"
	"os"

	"github.com/nbtools/ipclaunch/internal/config"
	"github.com/nbtools/ipclaunch/internal/utils"
	"github.com/spf13/cobra"
)

var debugMode bool

var rootCmd = &cobra.Command{
	Use:           "ipclaunch",
	Short:         "IPClaunch: Launch IPyParallel clusters on SLURM from notebook directives.",
	Version:       config.VERSION,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Step 1: Load defaults (scratch root, submit mode, interface)
		config.LoadDefaults()

		// Step 2: Initialize Viper (read config file, env vars)
		if err := config.InitViper(); err != nil {
			utils.PrintDebug("Error reading config file: %v", err)
		}

		// Step 3: Load values from Viper into Global config
		config.LoadFromViper()

		// Step 4: Apply command-line flags (highest priority)
		if debugMode {
			utils.DebugMode = true
			config.Global.Debug = true
			utils.PrintDebug("Debug mode enabled")
			utils.PrintDebug("IPClaunch Version: %s", utils.StyleInfo(config.VERSION))
			utils.PrintDebug("Scratch Directory: %s", config.Global.ScratchDir)
			utils.PrintDebug("Submit Mode: %s", config.Global.SubmitMode)
			utils.PrintDebug("Network Interface: %s", config.Global.NetworkInterface)
		}

		// Step 5: Locate the SLURM client binaries (informational)
		config.DetectSchedulerBins()
		if debugMode && config.Global.SallocBin != "" {
			utils.PrintDebug("salloc: %s", config.Global.SallocBin)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Subcommands are attached to rootCmd in their respective init() functions
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode with verbose output")
}
