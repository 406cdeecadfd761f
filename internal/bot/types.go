package bot

import (
	"context"

	"github.com/samber/mo"
)

// Event is one inbound chat message.
type Event struct {
	SenderID  int64
	ChatID    int64
	MessageID int
	Text      mo.Option[string] // absent for photos, stickers and other non-text messages
}

// Reply is one outbound message to a chat.
type Reply struct {
	ChatID  int64
	Text    string
	ReplyTo int // inbound message to thread under; zero for none
}

// Source delivers inbound events and sends replies back to the chat platform.
type Source interface {
	// DropPending discards updates queued while the process was not running.
	DropPending(ctx context.Context) error
	// Start consumes updates, calling dispatch for each event, until ctx is done.
	Start(ctx context.Context, dispatch func(Event))
	Send(ctx context.Context, reply Reply) error
	Typing(ctx context.Context, chatID int64) error
}

// Completer turns a prompt into a model reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) mo.Result[string]
}
