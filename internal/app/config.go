package app

import (
	"time"

	"github.com/yungbote/foodgram-backend/internal/http/middleware"
	"github.com/yungbote/foodgram-backend/internal/platform/envutil"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/services"
)

type Config struct {
	Port            string
	ServiceName     string
	Environment     string
	Version         string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	PageSize        int
	LoginRatePerMin int
	LoginBurst      int
	CORSOrigins     []string
	MetricsAddr     string
	RedisAddr       string
	TokenPurgeEvery time.Duration
	ShutdownGrace   time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:            envutil.String("PORT", "8080", log),
		ServiceName:     envutil.String("OTEL_SERVICE_NAME", "foodgram", log),
		Environment:     envutil.String("APP_ENV", "development", log),
		Version:         envutil.String("APP_VERSION", "dev", log),
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", 24*time.Hour, log),
		PageSize:        envutil.Int("PAGE_SIZE", services.DefaultPageSize, log),
		LoginRatePerMin: envutil.Int("LOGIN_RATE_PER_MIN", 10, log),
		LoginBurst:      envutil.Int("LOGIN_RATE_BURST", 5, log),
		CORSOrigins:     envutil.List("CORS_ALLOWED_ORIGINS", middleware.DefaultAllowedOrigins),
		MetricsAddr:     envutil.String("METRICS_ADDR", ":9090", log),
		RedisAddr:       envutil.String("REDIS_ADDR", "", log),
		TokenPurgeEvery: envutil.Seconds("TOKEN_PURGE_INTERVAL", time.Hour, log),
		ShutdownGrace:   envutil.Seconds("SHUTDOWN_GRACE", 10*time.Second, log),
	}
	if cfg.JWTSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY not set; using the development default")
	}
	if cfg.PageSize <= 0 || cfg.PageSize > services.MaxPageSize {
		log.Warn("PAGE_SIZE out of range, using default", "value", cfg.PageSize)
		cfg.PageSize = services.DefaultPageSize
	}
	return cfg
}
