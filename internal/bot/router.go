package bot

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

// HandlerFunc handles a routed event. A returned error is logged by the router.
type HandlerFunc func(ctx context.Context, ev Event) error

// Route binds a handler to the events its predicate accepts.
type Route struct {
	Name   string
	Match  func(ev Event) bool
	Handle HandlerFunc
}

// Router dispatches each event to the first route that matches it.
type Router struct {
	routes []Route
	log    zerolog.Logger
}

func NewRouter(log zerolog.Logger, routes ...Route) *Router {
	return &Router{
		routes: routes,
		log:    log.With().Str("component", "router").Logger(),
	}
}

// Route runs the first matching handler. Handler errors and panics stop here.
func (r *Router) Route(ctx context.Context, ev Event) {
	for _, route := range r.routes {
		if !route.Match(ev) {
			continue
		}

		if err := r.run(ctx, route, ev); err != nil {
			r.log.Error().
				Err(err).
				Int64("sender_id", ev.SenderID).
				Int64("chat_id", ev.ChatID).
				Str("route", route.Name).
				Msg("handler failed")
		}
		return
	}

	r.log.Debug().
		Int64("sender_id", ev.SenderID).
		Int64("chat_id", ev.ChatID).
		Msg("no route matched, event dropped")
}

func (r *Router) run(ctx context.Context, route Route, ev Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()

	return route.Handle(ctx, ev)
}

// IsCommand matches events whose first word is /name, with or without a
// @botname suffix.
func IsCommand(name string) func(ev Event) bool {
	name = strings.ToLower(name)
	return func(ev Event) bool {
		text, ok := ev.Text.Get()
		if !ok {
			return false
		}
		return parseCommand(text) == name
	}
}

// HasText matches events that carry non-empty text.
func HasText(ev Event) bool {
	text, ok := ev.Text.Get()
	return ok && text != ""
}

// parseCommand extracts the command name from a message.
// It handles "/command", "/command args", and "/command@botname args".
func parseCommand(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}

	cmd := text[1:]
	if end := strings.IndexFunc(cmd, unicode.IsSpace); end != -1 {
		cmd = cmd[:end]
	}

	// Strip @botname suffix.
	if at := strings.Index(cmd, "@"); at != -1 {
		cmd = cmd[:at]
	}

	return strings.ToLower(cmd)
}
