// utils/logger.go
package utils

import (
	"go.uber.org/zap"
)

// NewLogger builds the process-wide sugared logger.
func NewLogger() (*zap.SugaredLogger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
