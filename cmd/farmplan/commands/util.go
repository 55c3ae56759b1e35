package commands

import (
	"os"

	"github.com/rs/zerolog"
)

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func zerologFromLevel(level string) zerolog.Logger {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		l = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(l).With().Timestamp().Logger()
}
