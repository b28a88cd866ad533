package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigFilename is the name of the config file
const ConfigFilename = "config"

// ConfigType is the type of config file
const ConfigType = "yaml"

// InitViper initializes Viper with proper search paths and defaults
// Priority (highest to lowest):
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (IPCLAUNCH_*, plus SCRATCH for the scratch root)
// 3. User config file (~/.config/ipclaunch/config.yaml)
// 4. System config file (/etc/ipclaunch/config.yaml)
// 5. Defaults
func InitViper() error {
	viper.SetConfigName(ConfigFilename)
	viper.SetConfigType(ConfigType)

	// User config (highest priority)
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(userConfigDir, "ipclaunch"))
	}

	// Home directory fallback
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".ipclaunch"))
	}

	// System-wide config (lower priority)
	viper.AddConfigPath("/etc/ipclaunch")

	// Current directory (for development)
	viper.AddConfigPath(".")

	// Environment variables
	viper.SetEnvPrefix("IPCLAUNCH")
	viper.AutomaticEnv()

	// The scratch root follows the HPC convention of a $SCRATCH variable,
	// with IPCLAUNCH_SCRATCH_DIR taking priority for explicit overrides.
	viper.BindEnv("scratch_dir", "IPCLAUNCH_SCRATCH_DIR", "SCRATCH")

	// Set defaults (lowest priority)
	setDefaults()

	// Read config file (non-fatal if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; defaults and env vars apply
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// setDefaults sets default values for all config keys
func setDefaults() {
	viper.SetDefault("scratch_dir", "")
	viper.SetDefault("submit_mode", ModeSalloc)
	viper.SetDefault("network_interface", "ipogif0")
	viper.SetDefault("shell", "bash")
}

// GetUserConfigPath returns the path to the user config file
func GetUserConfigPath() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".ipclaunch", ConfigFilename+"."+ConfigType), nil
	}

	return filepath.Join(userConfigDir, "ipclaunch", ConfigFilename+"."+ConfigType), nil
}

// LoadFromViper loads config from Viper into the Global struct
func LoadFromViper() {
	if dir := viper.GetString("scratch_dir"); dir != "" {
		Global.ScratchDir = dir
	}

	if mode := viper.GetString("submit_mode"); mode == ModeSalloc || mode == ModeSbatch {
		Global.SubmitMode = mode
	}

	if iface := viper.GetString("network_interface"); iface != "" {
		Global.NetworkInterface = iface
	}

	if shell := viper.GetString("shell"); shell != "" {
		Global.ShellBin = shell
	}
}
