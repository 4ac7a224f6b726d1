package engine

import (
	"echoes-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// AddLog добавляет строку в журнал партии и дублирует ее в лог сервера
func (i *Instance) AddLog(text, logType string) {
	i.Session.AddLog(text)
	logger.Log.WithFields(logrus.Fields{
		"room":      i.Code,
		"component": "game_log",
		"log_type":  logType,
	}).Info(text)
}
