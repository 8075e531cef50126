package dsn

import (
	"fmt"
	"os"
)

// FromEnv собирает строку подключения к Postgres из переменных окружения.
// Значения по умолчанию соответствуют локальному docker-compose окружению.
func FromEnv() string {
	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5432")
	user := envOr("DB_USER", "postgres")
	pass := envOr("DB_PASS", "password")
	name := envOr("DB_NAME", "ipo_portal")

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, pass, name, port)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
