package ai

import (
	"github.com/j0lvera/relaybot/internal/bot"
	"github.com/j0lvera/relaybot/internal/config"
	"go.uber.org/fx"
)

// Params for creating a completion client
type Params struct {
	fx.In

	Config *config.Config
}

// Result of creating a completion client
type Result struct {
	fx.Out

	Completer bot.Completer
}

// New creates a new completion client based on configuration
func New(p Params) (Result, error) {
	client, err := NewClient(
		p.Config.APIKey,
		p.Config.BaseURL,
		p.Config.Model,
		p.Config.CompletionTimeout,
	)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Completer: client,
	}, nil
}

// Module provides the completion client
func Module() fx.Option {
	return fx.Module(
		"ai",
		fx.Provide(
			New,
		),
	)
}
