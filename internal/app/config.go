package app

import (
	"strings"
	"time"

	"github.com/prismnews/prism-backend/internal/pkg/env"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

type Config struct {
	AppEnv         string
	ServiceName    string
	Port           string
	JWTSecretKey   string
	InternalToken  string
	AllowedOrigins []string
	InsightTTL     time.Duration
	EmbeddingDim   int
}

func LoadConfig(log *logger.Logger) Config {
	insightTTLHours := env.GetEnvAsInt("INSIGHT_TTL_HOURS", 720, log)

	var origins []string
	if raw := env.GetEnv("ALLOWED_ORIGINS", "", log); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return Config{
		AppEnv:         env.GetEnv("APP_ENV", "development", log),
		ServiceName:    env.GetEnv("SERVICE_NAME", "prism-backend", log),
		Port:           env.GetEnv("PORT", "8080", log),
		JWTSecretKey:   env.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		InternalToken:  env.GetEnv("INTERNAL_API_TOKEN", "", log),
		AllowedOrigins: origins,
		InsightTTL:     time.Duration(insightTTLHours) * time.Hour,
		EmbeddingDim:   env.GetEnvAsInt("EMBEDDING_DIM", 1536, log),
	}
}
