package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config настройки сервиса, читаются из окружения.
// ORDER_TAX_RATE — ставка налога в процентах, применяемая при оформлении заказа.
type Config struct {
	Env          string  `env:"ENV" env-default:"local"`
	HTTPAddr     string  `env:"HTTP_ADDR" env-default:":9091"`
	OrderTaxRate float64 `env:"ORDER_TAX_RATE" env-default:"10"`
	LogLevel     string  `env:"LOG_LEVEL" env-default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewLogger собирает zap-логгер: production-конфиг для prod, иначе development
func NewLogger(cfg *Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Env == "prod" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
