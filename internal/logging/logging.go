// Package logging configures the process-wide zerolog logger and the
// structured event helpers every reader-facing component calls into.
package logging

import (
	"os"
	"time"

	"github.com/andrei-cloud/go-emrtd/pkg/apdu"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the zerolog logger with the specified debug mode and output format.
func InitLogger(debug, human bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano                 // always initialize base logger with timestamp.
	base := zerolog.New(os.Stdout).With().Timestamp().Logger() // initialize base logger.
	if human {
		log.Logger = base.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339Nano,
		}) // select output format.
	} else {
		log.Logger = base // use JSON logger.
	}
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel) // set debug level.
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel) // set info level.
	}
}

// LogAPDUExchange logs one command/response round trip at debug level, hex
// encoding both sides so a transcript can be replayed against the
// simulator.
func LogAPDUExchange(client string, cmd *apdu.Command, res apdu.Response, duration time.Duration) {
	log.Debug().
		Str("event", "apdu_exchange").
		Str("client", client).
		Hex("command", cmd.Bytes()).
		Hex("response_data", res.Data).
		Str("trailer", res.Trailer.String()).
		Str("duration", duration.String()).
		Msg("apdu exchange")
}

// LogSessionEvent logs a secure messaging session lifecycle event: handshake
// start/success/failure, or a file read completing.
func LogSessionEvent(client, event string, err error) {
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}

	ev.Str("event", event).Str("client", client).Msg("session event")
}
