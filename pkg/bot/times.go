package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"rallytimesbot/pkg/model"
	"rallytimesbot/pkg/records"
	"rallytimesbot/pkg/standings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	commandTimes = "/tiempos"
	commandStats = "/estadisticas"

	subcommandStage = "tramo"
	stagesPerRow    = 4
)

// RecordReader is the read side of the record store.
type RecordReader interface {
	List(ctx context.Context) ([]model.StageRecord, error)
	Stats(ctx context.Context) (model.Stats, bool, error)
}

type TimesApp struct {
	sender  Sender
	records RecordReader
}

func NewTimesApp(sender Sender, rr RecordReader) *TimesApp {
	return &TimesApp{
		sender:  sender,
		records: rr,
	}
}

func (ta *TimesApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return false, nil
	}
	switch fields[0] {
	case commandTimes:
		stage := ""
		if len(fields) > 1 {
			stage = fields[1]
		}
		return true, ta.renderStage(stage, nil)
	case commandStats:
		return true, ta.renderStats()
	}
	return false, nil
}

func (ta *TimesApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	switch button {
	case buttonTimes:
		return true, ta.renderStage("", nil)
	case buttonStats:
		return true, ta.renderStats()
	}
	return false, nil
}

func (ta *TimesApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	data := strings.SplitN(query.Data, ":", 2)
	if len(data) != 2 || data[0] != subcommandStage {
		return false, nil
	}
	return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
		return ta.renderStage(data[1], &query.Message.MessageID)(ctx, query.Message.Chat.ID)
	}
}

// renderStage sends the table of stage, or edits messageID when it is set.
func (ta *TimesApp) renderStage(stage string, messageID *int) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		list, err := ta.records.List(ctx)
		if err != nil {
			log.Printf("error listing records: %s\n", err)
			_, err := ta.sender.Send(tgbotapi.NewMessage(chatId, "No se pudieron leer los tiempos"))
			return err
		}
		stage = records.NormalizeStage(stage)

		text := standings.RenderCompact(list, stage)
		if text == "" {
			text = fmt.Sprintf("%s en %s\n", standings.NoRecordsMessage, stage)
		}
		text = codeBlock(fmt.Sprintf("Tiempos en %s\n\n%s", stage, text))
		keyboard, hasStages := stagesKeyboard(list)

		if messageID != nil {
			msg := tgbotapi.NewEditMessageText(chatId, *messageID, text)
			msg.ParseMode = tgbotapi.ModeMarkdownV2
			if hasStages {
				msg.ReplyMarkup = &keyboard
			}
			_, err = ta.sender.Send(msg)
			return err
		}

		msg := tgbotapi.NewMessage(chatId, text)
		msg.ParseMode = tgbotapi.ModeMarkdownV2
		if hasStages {
			msg.ReplyMarkup = keyboard
		}
		_, err = ta.sender.Send(msg)
		return err
	}
}

func (ta *TimesApp) renderStats() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		stats, ok, err := ta.records.Stats(ctx)
		if err != nil {
			log.Printf("error reading stats: %s\n", err)
			_, err := ta.sender.Send(tgbotapi.NewMessage(chatId, "No se pudieron leer los tiempos"))
			return err
		}
		if !ok {
			_, err := ta.sender.Send(tgbotapi.NewMessage(chatId, "Sin datos para analizar."))
			return err
		}

		msg := tgbotapi.NewMessage(chatId, codeBlock("Estadísticas del rally\n\n"+standings.RenderStats(stats)))
		msg.ParseMode = tgbotapi.ModeMarkdownV2
		_, err = ta.sender.Send(msg)
		return err
	}
}

// stagesKeyboard has one button per stage with records.
func stagesKeyboard(list []model.StageRecord) (tgbotapi.InlineKeyboardMarkup, bool) {
	stages := []string{}
	for _, r := range records.Sorted(list) {
		if len(stages) == 0 || stages[len(stages)-1] != r.Stage {
			stages = append(stages, r.Stage)
		}
	}
	if len(stages) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	row := []tgbotapi.InlineKeyboardButton{}
	for _, s := range stages {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(s, subcommandStage+":"+s))
		if len(row) == stagesPerRow {
			rows = append(rows, row)
			row = []tgbotapi.InlineKeyboardButton{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}
