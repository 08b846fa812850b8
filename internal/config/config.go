// Package config loads the bridge's YAML configuration file, in the idiom
// the pack's cuemby-warren, ehrlich-b-cinch, and zon-ralph repos all use for
// standalone-service configuration (gopkg.in/yaml.v3).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// defaultBotLogin is the suppressed-sender identity when none is configured,
// matching the original implementation's bot account name.
const defaultBotLogin = "octobot"

// RepoConfig binds one forge repo to a chat review channel.
type RepoConfig struct {
	Host    string `yaml:"host"`
	Owner   string `yaml:"owner"`
	Name    string `yaml:"name"`
	Channel string `yaml:"channel"`
}

// UserConfig overrides the default direct-addressing handle for one login.
type UserConfig struct {
	Login        string `yaml:"login"`
	DirectHandle string `yaml:"direct_handle"`
	DisplayName  string `yaml:"display_name"`
}

// MattermostConfig holds connection settings for the chat-side REST client.
type MattermostConfig struct {
	SiteURL     string `yaml:"site_url"`
	BotToken    string `yaml:"bot_token"`
	BotUsername string `yaml:"bot_username"`
}

// ForgeConfig holds connection settings for the forge-side REST client.
type ForgeConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

// Config is the bridge's full external configuration.
type Config struct {
	ListenAddr          string           `yaml:"listen_addr"`
	WebhookSecret       string           `yaml:"webhook_secret"`
	BotLogin            string           `yaml:"bot_login"`
	BackportQueueSize   int              `yaml:"backport_queue_size"`
	Mattermost          MattermostConfig `yaml:"mattermost"`
	Forge               ForgeConfig      `yaml:"forge"`
	Repos               []RepoConfig     `yaml:"repos"`
	Users               []UserConfig     `yaml:"users"`
}

// Load reads and parses the YAML config file at path, applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read configuration file")
	}

	cfg := new(Config)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse configuration file")
	}

	cfg.applyDefaults()

	if err := cfg.IsValid(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.BotLogin == "" {
		c.BotLogin = defaultBotLogin
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.BackportQueueSize == 0 {
		c.BackportQueueSize = 256
	}
}

// Clone shallow-copies the configuration, including its slice fields, so a
// caller can read a stable snapshot while the active config is replaced.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Repos = append([]RepoConfig(nil), c.Repos...)
	clone.Users = append([]UserConfig(nil), c.Users...)
	return &clone
}

// IsValid checks that required configuration is present and well-formed.
func (c *Config) IsValid() error {
	if c.Mattermost.SiteURL == "" {
		return fmt.Errorf("mattermost.site_url is required")
	}
	if c.Mattermost.BotToken == "" {
		return fmt.Errorf("mattermost.bot_token is required")
	}
	if c.WebhookSecret == "" {
		return fmt.Errorf("webhook_secret is required")
	}
	for i, r := range c.Repos {
		if r.Host == "" || r.Owner == "" || r.Name == "" || r.Channel == "" {
			return fmt.Errorf("repos[%d]: host, owner, name, and channel are all required", i)
		}
	}
	for i, u := range c.Users {
		if strings.TrimSpace(u.Login) == "" {
			return fmt.Errorf("users[%d]: login is required", i)
		}
	}
	return nil
}
