package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nixstatus/nixstatus/internal/config"
	"github.com/nixstatus/nixstatus/internal/utils"
)

var configExts = []string{"yaml", "yml", "json", "toml"}

// flag name -> config key
var flagKeys = map[string]string{
	"data-dir":     config.KeyDataDir,
	"url-template": config.KeyURLTemplate,
	"revision-cmd": config.KeyRevisionCmd,
	"timeout":      config.KeyTimeout,
	"synced-msg":   config.KeySyncedMsg,
	"unsynced-msg": config.KeyUnsyncedMsg,
}

// resolveConfigPath determines which config file path to use, honoring (in order):
// 1) An explicitly set --config flag
// 2) NIXSTATUS_CONFIG environment variable
// 3) An existing config file in the config directory
// 4) The default path
func resolveConfigPath(cmd *cobra.Command) string {
	if cfgFlag := cmd.Flag("config"); cfgFlag != nil && cfgFlag.Changed {
		return cfgFlag.Value.String()
	}

	if envPath := os.Getenv(config.EnvPrefix + "_CONFIG"); envPath != "" {
		return envPath
	}

	for _, ext := range configExts {
		candidate := filepath.Join(config.DefaultConfigDir, config.ConfigFileName+"."+ext)
		if utils.FileExists(candidate) {
			return candidate
		}
	}

	return config.DefaultConfigPath
}

// loadConfig merges defaults, the config file, NIXSTATUS_* env vars and
// flags (highest precedence) into a validated Config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	config.SetDefaults(v)

	v.SetConfigFile(resolveConfigPath(cmd))
	if err := v.ReadInConfig(); err != nil {
		explicit := cmd.Flag("config") != nil && cmd.Flag("config").Changed
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config read '%s': %w", v.ConfigFileUsed(), err)
		}
	}

	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()

	return config.Load(v)
}
