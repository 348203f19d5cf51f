package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	menuStart = "/start"
	menuMenu  = "/menu"

	buttonTimes    = "Tiempos ⏱"
	buttonStats    = "Estadísticas 📊"
	buttonSettings = "Avisos 🔔"
)

var menuKeyboard = tgbotapi.NewReplyKeyboard(
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(buttonTimes),
		tgbotapi.NewKeyboardButton(buttonStats),
	),
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(buttonSettings),
	),
)

// MainApp answers /start and /menu and hands everything else to its apps.
type MainApp struct {
	sender    Sender
	accepters []Accepter
}

func NewMainApp(sender Sender, records RecordReader, subs Subscriptions) *MainApp {
	return &MainApp{
		sender: sender,
		accepters: []Accepter{
			NewTimesApp(sender, records),
			NewSettingsApp(sender, subs),
		},
	}
}

func (m *MainApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	if command == menuStart {
		return true, m.renderStart()
	} else if command == menuMenu {
		return true, m.renderMenu()
	}
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptCommand(command)
		if accept {
			return true, handler
		}
	}
	return false, nil
}

func (m *MainApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptCallback(query)
		if accept {
			return true, handler
		}
	}
	return false, nil
}

func (m *MainApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptButton(button)
		if accept {
			return true, handler
		}
	}
	return false, nil
}

func (m *MainApp) renderStart() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		message := "Hola, soy el bot del rally que muestra los tiempos registrados en cada tramo.\n\n"
		message += "Puedes usar los siguientes comandos:\n\n"
		message += fmt.Sprintf("%s - Muestra el menú del bot\n", menuMenu)
		message += fmt.Sprintf("%s [tramo] - Tabla de tiempos de un tramo\n", commandTimes)
		message += fmt.Sprintf("%s - Resumen de todos los tiempos\n", commandStats)
		message += fmt.Sprintf("%s - Avisos cuando cambia el líder\n", commandSettings)
		msg := tgbotapi.NewMessage(chatId, message)
		msg.ReplyMarkup = menuKeyboard
		_, err := m.sender.Send(msg)
		return err
	}
}

func (m *MainApp) renderMenu() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		msg := tgbotapi.NewMessage(chatId, "Menú del bot.\n\n")
		msg.ReplyMarkup = menuKeyboard
		_, err := m.sender.Send(msg)
		return err
	}
}
