// main is the entry point of the wzbot application.
// It loads the configuration, logs in to the stats provider and serves
// commands either from Telegram or from the local terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/wzbot/internal/auth"
	"github.com/woozymasta/wzbot/internal/codapi"
	"github.com/woozymasta/wzbot/internal/command"
	"github.com/woozymasta/wzbot/internal/config"
	"github.com/woozymasta/wzbot/internal/console"
	"github.com/woozymasta/wzbot/internal/logger"
	"github.com/woozymasta/wzbot/internal/telegram"
	"github.com/woozymasta/wzbot/internal/vars"
)

func main() {
	cfg := config.Parse()

	logCloser := logger.Setup(cfg.Logger)
	defer func() { _ = logCloser.Close() }()

	log.Info().Str("version", vars.Version).Str("commit", vars.CommitShort()).Msg("Starting wzbot...")

	if err := cfg.LoadFile(); err != nil {
		log.Fatal().Err(err).Str("path", cfg.ConfigPath).Msg("Failed to load config file")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stats provider
	client := codapi.New(codapi.Options{
		ProfileURL: cfg.API.ProfileURL,
		StatsURL:   cfg.API.StatsURL,
		RPS:        cfg.API.RPS,
		Burst:      cfg.API.Burst,
		Timeout:    cfg.API.Timeout,
	})
	if err := client.Login(ctx, cfg.File.ActivisionEmail, cfg.File.ActivisionPassword); err != nil {
		log.Fatal().Err(err).Msg("Failed to log in to the stats provider")
	}
	log.Info().Msg("Logged in to the stats provider")

	// Commands
	router := command.NewRouter(command.DefaultPrefix)
	mws := []command.Middleware{
		command.WithLogger(),
		command.WithSenderLimit(cfg.Telegram.UserLimit, cfg.Telegram.UserWindow),
	}
	router.Register(command.NewUserCommand(client), mws...)
	router.Register(command.NewUserRawCommand(client), mws...)
	router.Register(command.NewUserCompareCommand(client), mws...)

	if cfg.IsLocal() {
		log.Info().Msg("Local mode, reading commands from the terminal (empty line to exit)")
		if err := console.Run(ctx, os.Stdin, os.Stdout, router); err != nil {
			log.Error().Err(err).Msg("Console failed")
		}
		return
	}

	// Telegram
	telegram.UseZerolog()
	api, err := tgbotapi.NewBotAPI(cfg.File.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Telegram")
	}
	api.Debug = cfg.Telegram.Debug

	allowed := auth.NewAllowList(cfg.File.AdminIDs)
	if allowed.Len() == 0 {
		log.Warn().Msg("ADMIN_ID is empty, every message will be ignored")
	}
	log.Info().Str("bot", api.Self.UserName).Int("admins", allowed.Len()).Msg("Connected to Telegram")

	bot := telegram.New(api, router, allowed, telegram.Options{
		Workers:     cfg.Telegram.Workers,
		PollTimeout: cfg.Telegram.PollTimeout,
	})
	if err := bot.Start(ctx); err != nil {
		log.Error().Err(err).Msg("Telegram polling failed")
	}

	log.Info().Msg("Bot exited")
}
