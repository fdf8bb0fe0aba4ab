package main

import (
	"github.com/lite-lake/infra-siteops/internal/infrastructure/logger"
	"github.com/lite-lake/infra-siteops/internal/interfaces/cli"
)

func main() {
	logger.Init(logger.ConfigFromEnv())

	cli.Execute()
}
