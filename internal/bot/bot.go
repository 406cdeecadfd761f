package bot

import (
	"context"

	"github.com/j0lvera/relaybot/internal/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Config    *config.Config
	Source    Source
	Completer Completer
}

type Result struct {
	fx.Out

	Service *Service
	Router  *Router
}

func New(lc fx.Lifecycle, p Params, log zerolog.Logger) (Result, error) {
	handlers := NewHandlers(p.Source, p.Completer, p.Config.Messages, log)
	router := NewRouter(log, handlers.Routes()...)
	service := NewService(p.Source, router, p.Config.DropTimeout, log)

	runCtx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})

	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				log.Info().Msg("starting telegram bot...")
				go func() {
					defer close(stopped)
					service.Run(runCtx)
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				log.Info().Msg("stopping telegram bot...")
				cancel()
				select {
				case <-stopped:
				case <-ctx.Done():
					return ctx.Err()
				}
				return service.Shutdown(ctx)
			},
		},
	)

	return Result{
		Service: service,
		Router:  router,
	}, nil
}

func Module() fx.Option {
	return fx.Module(
		"bot",
		fx.Provide(
			New,
		),
		fx.Invoke(
			func(*Service) {},
		),
	)
}
