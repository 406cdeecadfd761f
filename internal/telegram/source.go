package telegram

import (
	"context"
	"fmt"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/j0lvera/relaybot/internal/bot"
	"github.com/rs/zerolog"
	"github.com/samber/mo"
)

// Source implements bot.Source over the Telegram Bot API using long polling.
type Source struct {
	tg       *tbot.Bot
	dispatch func(bot.Event)
	log      zerolog.Logger
}

// NewSource creates a Telegram source. It does not contact Telegram; the token
// is first used when pending updates are dropped.
func NewSource(token string, log zerolog.Logger, opts ...tbot.Option) (*Source, error) {
	s := &Source{
		log: log.With().Str("component", "telegram").Logger(),
	}

	opts = append(
		[]tbot.Option{
			tbot.WithSkipGetMe(),
			// dispatch only enqueues; running it inline keeps receipt order
			tbot.WithNotAsyncHandlers(),
			tbot.WithDefaultHandler(s.handleUpdate),
			tbot.WithErrorsHandler(func(err error) {
				s.log.Error().Err(err).Msg("telegram polling error")
			}),
		},
		opts...,
	)

	tg, err := tbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}
	s.tg = tg

	return s, nil
}

// DropPending deletes any webhook and discards updates queued at Telegram.
func (s *Source) DropPending(ctx context.Context) error {
	_, err := s.tg.DeleteWebhook(ctx, &tbot.DeleteWebhookParams{
		DropPendingUpdates: true,
	})
	if err != nil {
		return fmt.Errorf("unable to drop pending updates: %w", err)
	}
	return nil
}

// Start polls for updates until ctx is done. It must be called once.
func (s *Source) Start(ctx context.Context, dispatch func(bot.Event)) {
	s.dispatch = dispatch
	s.tg.Start(ctx)
}

func (s *Source) Send(ctx context.Context, reply bot.Reply) error {
	params := &tbot.SendMessageParams{
		ChatID: reply.ChatID,
		Text:   reply.Text,
	}
	if reply.ReplyTo != 0 {
		params.ReplyParameters = &models.ReplyParameters{
			MessageID: reply.ReplyTo,
		}
	}

	if _, err := s.tg.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("unable to send message to chat %d: %w", reply.ChatID, err)
	}
	return nil
}

func (s *Source) Typing(ctx context.Context, chatID int64) error {
	_, err := s.tg.SendChatAction(ctx, &tbot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionTyping,
	})
	return err
}

func (s *Source) handleUpdate(ctx context.Context, _ *tbot.Bot, update *models.Update) {
	ev, ok := toEvent(update)
	if !ok {
		s.log.Debug().Int64("update_id", update.ID).Msg("ignoring non-message update")
		return
	}

	if s.dispatch == nil {
		s.log.Warn().Int64("chat_id", ev.ChatID).Msg("update received before start")
		return
	}

	s.dispatch(ev)
}

// toEvent converts a new-message update. Other update kinds (edits, callbacks,
// channel posts) carry no event.
func toEvent(update *models.Update) (bot.Event, bool) {
	if update == nil || update.Message == nil {
		return bot.Event{}, false
	}

	msg := update.Message
	ev := bot.Event{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      mo.None[string](),
	}
	if msg.From != nil {
		ev.SenderID = msg.From.ID
	}
	if msg.Text != "" {
		ev.Text = mo.Some(msg.Text)
	}

	return ev, true
}
