package telegram

import (
	"github.com/j0lvera/relaybot/internal/bot"
	"github.com/j0lvera/relaybot/internal/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Config *config.Config
	Logger zerolog.Logger
}

type Result struct {
	fx.Out

	Source bot.Source
}

func New(p Params) (Result, error) {
	source, err := NewSource(p.Config.Token, p.Logger)
	if err != nil {
		return Result{}, err
	}

	return Result{Source: source}, nil
}

func Module() fx.Option {
	return fx.Module(
		"telegram",
		fx.Provide(
			New,
		),
	)
}
