package logger

import (
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

func Init() {
	log = logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyMsg: "action",
		},
	})
}

func Info(action string, details map[string]interface{}) {
	if log != nil {
		log.WithFields(details).Info(action)
	}
}

func Warn(action string, details map[string]interface{}) {
	if log != nil {
		log.WithFields(details).Warn(action)
	}
}

func Error(action string, err error, details map[string]interface{}) {
	if log != nil {
		log.WithFields(details).WithError(err).Error(action)
	}
}

func GenerateRequestID() string {
	return uuid.New().String()
}
