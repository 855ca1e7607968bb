package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/configs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var applicationName string = ""

func InitLogger(configs *configs.AppConfigs) {
	logLevel := strings.ToUpper(configs.Configs.ApplicationLogLevel)
	applicationName = configs.Configs.ApplicationName
	switch logLevel {
	case "DEBUG":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "INFO":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "WARN":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "ERROR":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "FATAL":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "PANIC":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "DISABLED":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		Panic(fmt.Sprintf("Incorrect log level %s", logLevel), nil)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	Info("Logger initialized!")
}

func Debug(message string) {
	log.Debug().Str("service", applicationName).Msg(message)
}

func Info(message string) {
	log.Info().Str("service", applicationName).Msg(message)
}

func Warn(message string) {
	log.Warn().Str("service", applicationName).Msg(message)
}

func Error(message string, err error) {
	log.Error().Str("service", applicationName).AnErr("error", err).Msg(message)
}

func Panic(message string, err error) {
	Error(message, err)
	log.Panic().Str("service", applicationName).AnErr("error", err).Msg(message)
}
