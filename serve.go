package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rallytimesbot/pkg/bot"
	"rallytimesbot/pkg/config"
	"rallytimesbot/pkg/live"
	"rallytimesbot/pkg/metrics"
	"rallytimesbot/pkg/model"
	"rallytimesbot/pkg/notification"
	"rallytimesbot/pkg/pubsub"
	"rallytimesbot/pkg/rally"
	"rallytimesbot/pkg/records"
	"rallytimesbot/pkg/settings"
	"rallytimesbot/pkg/webserver"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API, and the Telegram bot when a token is set",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			debug, _ := cmd.Flags().GetBool("debug")
			return serve(ctx, cfg, debug)
		},
	}

	cmd.Flags().String("webserver-address", "", "Address to listen on (WEBSERVER_ADDRESS)")
	cmd.Flags().String("admin-key", "", "Key required by reset in the X-Admin-Key header (ADMIN_KEY)")
	cmd.Flags().String("static-dir", "", "Directory served at / (STATIC_DIR)")
	cmd.Flags().Bool("allow-negative-penalties", false, "Accept negative penalties (ALLOW_NEGATIVE_PENALTIES)")
	cmd.Flags().Bool("debug", false, "Print the registered routes")

	return cmd
}

func serve(ctx context.Context, cfg config.Config, debug bool) error {
	events := pubsub.NewPubSub[model.RecordEvent]()
	rm, closeStore, err := openStore(cfg, events)
	if err != nil {
		return err
	}
	defer closeStore()

	if list, err := rm.List(ctx); err != nil {
		log.Printf("stored records could not be read: %s\n", err)
	} else {
		metrics.SetRecords(len(list))
	}

	feed := live.NewFeed(events)
	feed.Start(ctx)

	wm := webserver.NewManager(cfg.WebserverAddress, cfg.StaticDir)
	rally.NewAPI(rm, cfg.AdminKey).AddHandlers(wm.Router())
	wm.Handle(rally.PathPrefix+"/live", feed.Handler())
	wm.Handle("/metrics", metrics.Handler())
	if cfg.AdminKey == "" {
		log.Println("ADMIN_KEY is not set, reset is not protected")
	}

	if debug {
		wm.Debug()
	}

	if cfg.TelegramToken != "" {
		closeBot, err := startBot(ctx, cfg, rm, events)
		if err != nil {
			return err
		}
		defer closeBot()
	}

	return wm.Serve(ctx)
}

func startBot(ctx context.Context, cfg config.Config, rm *records.Manager, events *pubsub.PubSub[model.RecordEvent]) (func(), error) {
	tgbot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to telegram")
	}
	tgbot.Debug = false

	sm, err := settings.NewManager(cfg.SettingsDB)
	if err != nil {
		return nil, err
	}

	leader := ""
	if stats, ok, err := rm.Stats(ctx); err == nil && ok {
		leader = stats.Leader
	}
	notification.NewManager(sm, notification.TelegramNotifier(tgbot)).Start(ctx, events, leader)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := tgbot.GetUpdatesChan(u)

	b := bot.NewBot(tgbot, bot.NewMainApp(tgbot, rm, sm))
	go b.Run(ctx, updates)
	log.Printf("telegram bot %s listening for updates\n", tgbot.Self.UserName)

	return func() {
		tgbot.StopReceivingUpdates()
		sm.Close()
	}, nil
}
