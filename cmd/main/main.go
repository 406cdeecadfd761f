package main

import (
	"github.com/j0lvera/relaybot/internal/ai"
	"github.com/j0lvera/relaybot/internal/bot"
	"github.com/j0lvera/relaybot/internal/config"
	"github.com/j0lvera/relaybot/internal/health"
	"github.com/j0lvera/relaybot/internal/log"
	"github.com/j0lvera/relaybot/internal/telegram"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		config.Module(),
		log.Module(),
		ai.Module(),
		telegram.Module(),
		bot.Module(),
		health.Module(),
	).Run()
}
