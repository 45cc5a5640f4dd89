package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

func main() {
	// Protocol traffic goes to stdout; the structured log stays on
	// stderr so a GUI never sees it.
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger().
		Level(zerolog.WarnLevel)

	newUCI(os.Stdout, logger).loop(os.Stdin)
}
