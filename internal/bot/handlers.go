package bot

import (
	"context"
	"fmt"

	"github.com/j0lvera/relaybot/internal/config"
	"github.com/rs/zerolog"
)

// Handlers holds the start and free-text handlers and what they share.
type Handlers struct {
	source    Source
	completer Completer
	messages  config.Messages
	log       zerolog.Logger
}

func NewHandlers(
	source Source, completer Completer, messages config.Messages, log zerolog.Logger,
) *Handlers {
	return &Handlers{
		source:    source,
		completer: completer,
		messages:  messages,
		log:       log.With().Str("component", "handlers").Logger(),
	}
}

// Routes returns the routing table: /start first, then any text.
func (h *Handlers) Routes() []Route {
	return []Route{
		{Name: "start", Match: IsCommand("start"), Handle: h.Start},
		{Name: "message", Match: HasText, Handle: h.Message},
	}
}

// Start sends the greeting.
func (h *Handlers) Start(ctx context.Context, ev Event) error {
	h.log.Info().Int64("sender_id", ev.SenderID).Msg("start command")

	return h.reply(ctx, ev, h.messages.Greeting)
}

// Message relays the event text to the completer and sends back exactly one
// reply: the completion on success, the fallback text otherwise.
func (h *Handlers) Message(ctx context.Context, ev Event) error {
	prompt, ok := ev.Text.Get()
	if !ok || prompt == "" {
		return nil
	}

	h.log.Info().
		Int64("sender_id", ev.SenderID).
		Int64("chat_id", ev.ChatID).
		Int("prompt_length", len(prompt)).
		Msg("message received")

	if err := h.source.Typing(ctx, ev.ChatID); err != nil {
		h.log.Debug().Err(err).Int64("chat_id", ev.ChatID).Msg("unable to send typing action")
	}

	answer, err := h.completer.Complete(ctx, prompt).Get()
	if err != nil {
		h.log.Error().
			Err(err).
			Int64("sender_id", ev.SenderID).
			Int64("chat_id", ev.ChatID).
			Msg("unable to generate ai response")
		return h.reply(ctx, ev, h.messages.Fallback)
	}

	h.log.Info().Int64("sender_id", ev.SenderID).Msg("sending response")

	return h.reply(ctx, ev, answer)
}

func (h *Handlers) reply(ctx context.Context, ev Event, text string) error {
	err := h.source.Send(ctx, Reply{
		ChatID:  ev.ChatID,
		Text:    text,
		ReplyTo: ev.MessageID,
	})
	if err != nil {
		return fmt.Errorf("unable to reply: %w", err)
	}
	return nil
}
