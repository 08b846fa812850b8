package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
mattermost:
  site_url: "https://chat.example.com"
  bot_token: "token123"
webhook_secret: "shh"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, defaultBotLogin, cfg.BotLogin)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 256, cfg.BackportQueueSize)
}

func TestLoad_MissingSiteURL(t *testing.T) {
	path := writeConfig(t, `
mattermost:
  bot_token: "token123"
webhook_secret: "shh"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingWebhookSecret(t *testing.T) {
	path := writeConfig(t, `
mattermost:
  site_url: "https://chat.example.com"
  bot_token: "token123"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RepoEntryRequiresAllFields(t *testing.T) {
	path := writeConfig(t, `
mattermost:
  site_url: "https://chat.example.com"
  bot_token: "token123"
webhook_secret: "shh"
repos:
  - host: "github.com"
    owner: "some-user"
    name: "some-repo"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_ValidFullConfig(t *testing.T) {
	path := writeConfig(t, `
listen_addr: ":9090"
webhook_secret: "shh"
bot_login: "ci-bot"
backport_queue_size: 64
mattermost:
  site_url: "https://chat.example.com"
  bot_token: "token123"
  bot_username: "ci-bot"
forge:
  base_url: "https://api.github.com"
  token: "ghtoken"
repos:
  - host: "github.com"
    owner: "some-user"
    name: "some-repo"
    channel: "the-reviews-channel"
users:
  - login: "joe-reviewer"
    direct_handle: "@joe"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "ci-bot", cfg.BotLogin)
	assert.Equal(t, 64, cfg.BackportQueueSize)
	require.Len(t, cfg.Repos, 1)
	assert.Equal(t, "the-reviews-channel", cfg.Repos[0].Channel)
}

func TestClone_IsIndependentOfOriginal(t *testing.T) {
	cfg := &Config{
		Repos: []RepoConfig{{Host: "github.com", Owner: "a", Name: "b", Channel: "c"}},
	}

	clone := cfg.Clone()
	clone.Repos[0].Channel = "changed"

	assert.Equal(t, "c", cfg.Repos[0].Channel)
	assert.Equal(t, "changed", clone.Repos[0].Channel)
}
