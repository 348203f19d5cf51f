package notification

import (
	"context"
	"fmt"
	"log"

	"rallytimesbot/pkg/helper"
	"rallytimesbot/pkg/model"
	"rallytimesbot/pkg/pubsub"
	"rallytimesbot/pkg/settings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nikoksr/notify"
	"github.com/nikoksr/notify/service/telegram"
)

const LeaderSubject = "Nuevo líder del rally"

type Lister interface {
	ListUsersForLeaderChange() ([]settings.TelegramUser, error)
}

// NotifierFunc builds the notifier that delivers to the given chats.
type NotifierFunc func(chatIDs []int64) notify.Notifier

// TelegramNotifier sends through the bot client.
func TelegramNotifier(bot *tgbotapi.BotAPI) NotifierFunc {
	return func(chatIDs []int64) notify.Notifier {
		tg := &telegram.Telegram{}
		tg.SetClient(bot)
		tg.AddReceivers(chatIDs...)
		return notify.NewWithServices(tg)
	}
}

// Manager tells subscribed users whenever the overall leader changes.
type Manager struct {
	lister   Lister
	notifier NotifierFunc
	leader   string
}

func NewManager(lister Lister, notifier NotifierFunc) *Manager {
	return &Manager{
		lister:   lister,
		notifier: notifier,
	}
}

// Start consumes record events until ctx is done. currentLeader is the leader
// when the program started, so that it is not announced again.
func (m *Manager) Start(ctx context.Context, events *pubsub.PubSub[model.RecordEvent], currentLeader string) {
	m.leader = currentLeader
	ch := events.Subscribe(pubsub.TopicRecords)
	go func() {
		defer events.Unsubscribe(pubsub.TopicRecords, ch)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				m.handleEvent(ctx, ev)
			}
		}
	}()
}

func (m *Manager) handleEvent(ctx context.Context, ev model.RecordEvent) {
	if ev.Leader == m.leader {
		return
	}
	m.leader = ev.Leader
	if ev.Leader == "" {
		return
	}

	log.Printf("New rally leader: %s\n", ev.Leader)
	recipients, err := m.lister.ListUsersForLeaderChange()
	if err != nil {
		log.Printf("Error listing users for leader change: %s", err.Error())
		return
	}
	if err := m.sendNotification(ctx, recipients, ev); err != nil {
		log.Printf("Error notifying users: %s", err.Error())
	}
}

func (m *Manager) sendNotification(ctx context.Context, tusers []settings.TelegramUser, ev model.RecordEvent) error {
	if len(tusers) == 0 {
		return nil
	}

	chatIDs := make([]int64, 0, len(tusers))
	for _, tuser := range tusers {
		chatIDs = append(chatIDs, tuser.ChatID)
	}
	log.Printf("Sending leader notification to %d telegram users\n", len(chatIDs))

	return m.notifier(chatIDs).Send(ctx, LeaderSubject, LeaderMessage(ev))
}

func LeaderMessage(ev model.RecordEvent) string {
	return fmt.Sprintf("%s lidera el rally con %s", ev.Leader, helper.SecondsToMinutes(ev.LeaderTime))
}
