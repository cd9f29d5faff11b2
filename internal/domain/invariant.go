package domain

import (
	"github.com/h918m/mazmorra/pkg/logger"
	"github.com/sirupsen/logrus"
)

// StrictInvariants: в dev-сборке и тестах нарушение инварианта - паника.
// В проде только пишем в лог и продолжаем.
var StrictInvariants = false

// Invariant проверяет условие ok. Возвращает ok, чтобы вызывающий мог сделать ранний выход.
func Invariant(ok bool, msg string, fields logrus.Fields) bool {
	if ok {
		return true
	}
	logger.Log.WithFields(fields).WithField("component", "invariant").Error(msg)
	if StrictInvariants {
		panic("invariant violated: " + msg)
	}
	return false
}
