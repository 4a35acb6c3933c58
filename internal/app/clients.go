package app

import (
	"os"

	"github.com/prismnews/prism-backend/internal/clients/openai"
	"github.com/prismnews/prism-backend/internal/clients/redis"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

type Clients struct {
	OpenAI openai.Client
	Cache  redis.Cache
}

// wireClients builds external clients. Both are optional: without an API key
// the summarization surface reports upstream unavailable, and without Redis
// the read caches are skipped.
func wireClients(log *logger.Logger) Clients {
	var clients Clients

	if os.Getenv("OPENAI_API_KEY") != "" {
		ai, err := openai.NewClient(log)
		if err != nil {
			log.Warn("OpenAI client unavailable", "error", err)
		} else {
			clients.OpenAI = ai
		}
	} else {
		log.Warn("OPENAI_API_KEY not set; generation endpoints will be unavailable")
	}

	if os.Getenv("REDIS_ADDR") != "" {
		cache, err := redis.NewCache(log)
		if err != nil {
			log.Warn("Redis cache unavailable", "error", err)
		} else {
			clients.Cache = cache
		}
	}

	return clients
}
