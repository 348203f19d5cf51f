package bot

import (
	"context"
	"log"
	"strings"

	"rallytimesbot/pkg/settings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	commandSettings         = "/avisos"
	subcommandNotifications = "avisos"
	actionToggle            = "toggle"
)

type Subscriptions interface {
	IsSubscribed(userID int64) (bool, error)
	ToggleLeaderNotification(user settings.TelegramUser) (bool, error)
}

type SettingsApp struct {
	sender Sender
	subs   Subscriptions
}

func NewSettingsApp(sender Sender, subs Subscriptions) *SettingsApp {
	return &SettingsApp{
		sender: sender,
		subs:   subs,
	}
}

func (sa *SettingsApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	if command == commandSettings {
		return true, sa.renderNotifications(nil)
	}
	return false, nil
}

func (sa *SettingsApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	if button == buttonSettings {
		return true, sa.renderNotifications(nil)
	}
	return false, nil
}

func (sa *SettingsApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	data := strings.Split(query.Data, ":")
	if len(data) != 2 || data[0] != subcommandNotifications || data[1] != actionToggle {
		return false, nil
	}
	return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
		user, ok := userFromContext(ctx)
		if !ok {
			_, err := sa.sender.Send(tgbotapi.NewMessage(query.Message.Chat.ID, "No se pudo leer el usuario"))
			return err
		}
		chat, ok := chatFromContext(ctx)
		if !ok {
			_, err := sa.sender.Send(tgbotapi.NewMessage(query.Message.Chat.ID, "No se pudo leer información del chat"))
			return err
		}

		_, err := sa.subs.ToggleLeaderNotification(settings.TelegramUser{
			ID:     user.ID,
			Name:   user.UserName,
			ChatID: chat.ID,
		})
		if err != nil {
			log.Printf("error toggling notification: %s\n", err)
			_, err := sa.sender.Send(tgbotapi.NewMessage(chat.ID, "No se pudo cambiar el estado de la notificación"))
			return err
		}
		return sa.renderNotifications(&query.Message.MessageID)(ctx, chat.ID)
	}
}

func (sa *SettingsApp) renderNotifications(messageID *int) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		user, ok := userFromContext(ctx)
		if !ok {
			_, err := sa.sender.Send(tgbotapi.NewMessage(chatId, "No se pudo leer el usuario"))
			return err
		}
		enabled, err := sa.subs.IsSubscribed(user.ID)
		if err != nil {
			log.Println(err)
			_, err := sa.sender.Send(tgbotapi.NewMessage(chatId, "No se pudo leer el estado de la notificación"))
			return err
		}

		text := settings.Status(enabled) + "\n\nPulsa el botón para cambiarlo."
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Cambiar "+symbolToggle(enabled), subcommandNotifications+":"+actionToggle),
			),
		)

		if messageID != nil {
			msg := tgbotapi.NewEditMessageText(chatId, *messageID, text)
			msg.ReplyMarkup = &keyboard
			_, err = sa.sender.Send(msg)
			return err
		}
		msg := tgbotapi.NewMessage(chatId, text)
		msg.ReplyMarkup = keyboard
		_, err = sa.sender.Send(msg)
		return err
	}
}

func symbolToggle(enabled bool) string {
	if enabled {
		return "🔕"
	}
	return "🔔"
}
