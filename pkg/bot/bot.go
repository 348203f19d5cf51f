package bot

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type ContextUser string
type ContextChatID string

const (
	UserContextKey ContextUser   = "user"
	ChatContextKey ContextChatID = "chat"
)

// Sender is the part of the bot client used by the apps. *tgbotapi.BotAPI
// implements it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Accepter interface {
	AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error)
	AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error)
	AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error)
}

type Bot struct {
	sender Sender
	app    Accepter
}

func NewBot(sender Sender, app Accepter) *Bot {
	return &Bot{
		sender: sender,
		app:    app,
	}
}

// Run dispatches updates until ctx is done or the channel is closed.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil:
		err = b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		err = b.handleCallback(ctx, update.CallbackQuery)
	}
	if err != nil {
		log.Printf("An error occured: %s", err.Error())
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	user := message.From
	if user == nil {
		return nil
	}
	text := strings.TrimSpace(message.Text)
	log.Printf("%s wrote %s", user.FirstName, text)

	ctx = context.WithValue(ctx, UserContextKey, user)
	ctx = context.WithValue(ctx, ChatContextKey, message.Chat)

	var accept bool
	var handler func(ctx context.Context, chatId int64) error
	if message.IsCommand() {
		accept, handler = b.app.AcceptCommand(text)
	} else {
		accept, handler = b.app.AcceptButton(text)
	}
	if !accept {
		return nil
	}
	return handler(ctx, message.Chat.ID)
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query.Message == nil {
		return nil
	}
	ctx = context.WithValue(ctx, UserContextKey, query.From)
	ctx = context.WithValue(ctx, ChatContextKey, query.Message.Chat)

	// the client shows a spinner until the callback is answered
	if _, err := b.sender.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("error answering callback: %s\n", err)
	}

	accept, handler := b.app.AcceptCallback(query)
	if !accept {
		return nil
	}
	return handler(ctx, query)
}

func userFromContext(ctx context.Context) (*tgbotapi.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*tgbotapi.User)
	return user, ok && user != nil
}

func chatFromContext(ctx context.Context) (*tgbotapi.Chat, bool) {
	chat, ok := ctx.Value(ChatContextKey).(*tgbotapi.Chat)
	return chat, ok && chat != nil
}

// codeBlock wraps text in a MarkdownV2 pre block.
func codeBlock(text string) string {
	r := strings.NewReplacer("\\", "\\\\", "`", "\\`")
	return "```\n" + r.Replace(text) + "```"
}
