package dsn

import (
	"fmt"
	"os"
)

// FromEnv собирает строку подключения к postgres из переменных окружения.
// Пустая строка означает, что DB_HOST не задан.
func FromEnv() string {
	host, ok := os.LookupEnv("DB_HOST")
	if !ok || host == "" {
		return ""
	}
	port := getenv("DB_PORT", "5432")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASS")
	dbname := os.Getenv("DB_NAME")
	sslmode := getenv("DB_SSLMODE", "disable")
	tz := getenv("DB_TIMEZONE", "UTC")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		host, port, user, pass, dbname, sslmode, tz)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
