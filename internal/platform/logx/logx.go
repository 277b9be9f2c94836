package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Environment string
	Output      io.Writer
}

// Init configures the global zerolog logger.
// Production logs JSON at info level; everything else gets a console writer at debug.
func Init(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	if strings.EqualFold(opts.Environment, "production") {
		log.Logger = zerolog.New(out).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).
			With().Timestamp().Caller().Logger().
			Level(zerolog.DebugLevel)
	}

	return log.Logger
}

// Nop is used by components constructed without a logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
