package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Service consumes the update source and feeds the router.
type Service struct {
	source      Source
	dispatcher  *Dispatcher
	dropTimeout time.Duration
	log         zerolog.Logger
}

func NewService(
	source Source, router *Router, dropTimeout time.Duration, log zerolog.Logger,
) *Service {
	return &Service{
		source:      source,
		dispatcher:  NewDispatcher(router.Route, log),
		dropTimeout: dropTimeout,
		log:         log.With().Str("component", "service").Logger(),
	}
}

// Run drops stale updates once and then consumes the source until ctx is done.
// A failed drop is logged; consumption starts regardless.
func (s *Service) Run(ctx context.Context) {
	dropCtx := ctx
	if s.dropTimeout > 0 {
		var cancel context.CancelFunc
		dropCtx, cancel = context.WithTimeout(ctx, s.dropTimeout)
		defer cancel()
	}

	if err := s.source.DropPending(dropCtx); err != nil {
		s.log.Warn().Err(err).Msg("unable to drop pending updates")
	} else {
		s.log.Info().Msg("pending updates dropped")
	}

	s.log.Info().Msg("consuming updates...")
	s.source.Start(ctx, s.dispatcher.Submit)
	s.log.Info().Msg("update consumption stopped")
}

// Shutdown waits for in-flight handlers, bounded by ctx.
func (s *Service) Shutdown(ctx context.Context) error {
	return s.dispatcher.Stop(ctx)
}
