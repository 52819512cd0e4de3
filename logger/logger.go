package logger

import (
	"os"

	"go.uber.org/zap"
)

func InitLogger() (*zap.Logger, error) {
	if os.Getenv("STATE") == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
