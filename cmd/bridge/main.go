// Command bridge runs the forge-to-chat webhook bridge: it receives GitHub
// webhook deliveries, renders them into Mattermost notifications, and
// schedules backport jobs for merged, backport-labeled pull requests.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattermost/mattermost/server/public/model"

	"github.com/octobridge/bridge/internal/backport"
	"github.com/octobridge/bridge/internal/config"
	"github.com/octobridge/bridge/internal/forgeclient"
	"github.com/octobridge/bridge/internal/handler"
	"github.com/octobridge/bridge/internal/logging"
	"github.com/octobridge/bridge/internal/messenger"
	"github.com/octobridge/bridge/internal/registry"
	"github.com/octobridge/bridge/internal/webhook"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the bridge's YAML configuration file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log := logging.NewDefault(*debug)

	if err := run(*configPath, log); err != nil {
		log.Error("bridge: fatal startup error", "error", err.Error())
		os.Exit(1)
	}
}

func run(configPath string, log logging.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	repos := buildRepoRegistry(cfg)
	users := buildUserRegistry(cfg)

	mmClient := model.NewAPIv4Client(cfg.Mattermost.SiteURL)
	mmClient.SetToken(cfg.Mattermost.BotToken)

	botUser, _, err := mmClient.GetMe(context.Background(), "")
	if err != nil {
		return fmt.Errorf("resolving bot user from mattermost: %w", err)
	}
	log.Info("bridge: authenticated to mattermost", "bot_user_id", botUser.Id, "bot_username", botUser.Username)

	msgr := messenger.NewMattermostMessenger(mmClient, botUser.Id, log)
	forgeClient := forgeclient.NewClient(cfg.Forge.Token)
	backportProducer := backport.NewChannelProducer(cfg.BackportQueueSize, log)

	h := handler.New(repos, users, msgr, forgeClient, backportProducer, cfg.BotLogin, log)
	server := webhook.New(h, cfg.WebhookSecret, log)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("bridge: listening", "addr", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info("bridge: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func buildRepoRegistry(cfg *config.Config) *registry.RepoRegistry {
	entries := make([]registry.RepoEntry, 0, len(cfg.Repos))
	for _, r := range cfg.Repos {
		entries = append(entries, registry.RepoEntry{
			Host:    r.Host,
			Owner:   r.Owner,
			Name:    r.Name,
			Channel: r.Channel,
		})
	}
	return registry.NewRepoRegistry(entries)
}

func buildUserRegistry(cfg *config.Config) *registry.UserRegistry {
	entries := make([]registry.UserEntry, 0, len(cfg.Users))
	for _, u := range cfg.Users {
		entries = append(entries, registry.UserEntry{
			Login:        u.Login,
			DirectHandle: u.DirectHandle,
			DisplayName:  u.DisplayName,
		})
	}
	return registry.NewUserRegistry(entries)
}
