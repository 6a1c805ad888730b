package globals

import (
	"context"
	"os"
)

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"

var JwtSecret = []byte(envOr("JWT_SECRET", "change-me-in-production"))

var Ctx = context.Background()

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
