package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/nixstatus/nixstatus/internal/revision"
	"github.com/nixstatus/nixstatus/internal/statestore"
	"github.com/nixstatus/nixstatus/internal/syncstate"
	"github.com/nixstatus/nixstatus/internal/utils"
	"github.com/nixstatus/nixstatus/internal/version"
)

const (
	EnvPrefix      = "NIXSTATUS"
	ConfigFileName = "config"

	KeyDataDir     = "data_dir"
	KeyURLTemplate = "url_template"
	KeyRevisionCmd = "revision_cmd"
	KeyTimeout     = "timeout"
	KeySyncedMsg   = "synced_msg"
	KeyUnsyncedMsg = "unsynced_msg"
)

var (
	DefaultConfigDir   = filepath.Join(xdg.ConfigHome, version.AppName)
	DefaultConfigPath  = filepath.Join(DefaultConfigDir, ConfigFileName+".yaml")
	DefaultRevisionCmd = revision.DefaultCommandName + " " + revision.DefaultCommandFlag

	ErrInvalidConfig = errors.New("config: invalid")
)

type Config struct {
	DataDir     string        `mapstructure:"data_dir"`
	URLTemplate string        `mapstructure:"url_template"`
	RevisionCmd string        `mapstructure:"revision_cmd"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SyncedMsg   string        `mapstructure:"synced_msg"`
	UnsyncedMsg string        `mapstructure:"unsynced_msg"`
	Path        string        `mapstructure:"-"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDataDir, "")
	v.SetDefault(KeyURLTemplate, revision.DefaultURLTemplate)
	v.SetDefault(KeyRevisionCmd, DefaultRevisionCmd)
	v.SetDefault(KeyTimeout, revision.DefaultTimeout)
	v.SetDefault(KeySyncedMsg, syncstate.DefaultSyncedMessage)
	v.SetDefault(KeyUnsyncedMsg, syncstate.DefaultUnsyncedMessage)
}

// Load builds a validated Config from v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.Path = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fills in defaults for empty fields and checks the rest.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		c.DataDir = statestore.DefaultDataDir()
	} else {
		dir, err := utils.ResolvePath(c.DataDir)
		if err != nil {
			return fmt.Errorf("%w: data dir: %w", ErrInvalidConfig, err)
		}
		c.DataDir = dir
	}

	if c.URLTemplate == "" {
		c.URLTemplate = revision.DefaultURLTemplate
	}
	if !strings.Contains(c.URLTemplate, revision.ChannelPlaceholder) {
		return fmt.Errorf("%w: url template %q has no %s placeholder", ErrInvalidConfig, c.URLTemplate, revision.ChannelPlaceholder)
	}
	if _, err := revision.NewChannelClient(c.URLTemplate, c.Timeout).URL("channel"); err != nil {
		return fmt.Errorf("%w: url template: %w", ErrInvalidConfig, err)
	}

	if strings.TrimSpace(c.RevisionCmd) == "" {
		c.RevisionCmd = DefaultRevisionCmd
	}

	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", ErrInvalidConfig, c.Timeout)
	}
	if c.Timeout == 0 {
		c.Timeout = revision.DefaultTimeout
	}

	return nil
}

func (c *Config) Messages() syncstate.Messages {
	return syncstate.Messages{
		Synced:   c.SyncedMsg,
		Unsynced: c.UnsyncedMsg,
	}
}

// SystemCommand returns the configured local revision command.
func (c *Config) SystemCommand() (*revision.SystemCommand, error) {
	return revision.ParseCommand(c.RevisionCmd)
}

func (c *Config) ChannelClient() *revision.ChannelClient {
	return revision.NewChannelClient(c.URLTemplate, c.Timeout)
}

func (c *Config) Store() *statestore.Store {
	return statestore.Open(c.DataDir, version.AppName)
}
