package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// botLogger routes the library's own log lines into zerolog at debug level.
type botLogger struct {
	logger zerolog.Logger
}

func (l botLogger) Println(v ...any) {
	l.logger.Debug().Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

func (l botLogger) Printf(format string, v ...any) {
	l.logger.Debug().Msgf(format, v...)
}

// UseZerolog replaces the library logger with the global zerolog logger.
func UseZerolog() {
	_ = tgbotapi.SetLogger(botLogger{logger: log.With().Str("component", "tgbotapi").Logger()})
}
