package main

import (
	"github.com/compass-ai/compass/internal/server"
	"github.com/compass-ai/compass/internal/util"
	"github.com/compass-ai/compass/pkg/logger"
	"github.com/compass-ai/compass/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
