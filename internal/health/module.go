package health

import (
	"context"

	"github.com/j0lvera/relaybot/internal/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Config *config.Config
	Logger zerolog.Logger
}

func New(lc fx.Lifecycle, p Params) *Server {
	server := NewServer(p.Config.Port, p.Config.Messages.Health, p.Logger)

	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				return server.Start()
			},
			OnStop: func(ctx context.Context) error {
				p.Logger.Info().Msg("stopping health server...")
				return server.Shutdown(ctx)
			},
		},
	)

	return server
}

func Module() fx.Option {
	return fx.Module(
		"health",
		fx.Provide(
			New,
		),
		fx.Invoke(
			func(*Server) {},
		),
	)
}
