package logger

import (
	"os"

	"go.uber.org/zap"
)

// New builds the process logger. Development output unless APP_ENV=production.
func New() *zap.Logger {
	var log *zap.Logger
	var err error
	if os.Getenv("APP_ENV") == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return log
}
