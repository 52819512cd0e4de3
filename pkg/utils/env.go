package utils

import (
	"log"
	"os"
)

func GetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Printf("env var %s is not set", key)
	}
	return val
}

func GetEnvOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
