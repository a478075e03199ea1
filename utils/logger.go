package utils

import (
	"strings"

	"go.uber.org/zap"
)

// NewLogger builds a sugared zap logger: JSON output in production, console
// output everywhere else.
func NewLogger(env string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(env) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
