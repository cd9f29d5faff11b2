package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
var Log = logrus.New()

// Init настраивает глобальный логгер.
// level и format берутся из конфига; переменные окружения LOG_LEVEL и LOG_FORMAT
// имеют приоритет (удобно для локальной отладки).
func Init(level, format string) {
	Log = logrus.New()

	// 1. Уровень логирования. По умолчанию - "info".
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		level = v
	}
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// 2. Форматтер: "json" для продакшена, "text" для разработки.
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok {
		format = v
	}
	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}

// Component возвращает логгер с уже проставленным полем component.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
