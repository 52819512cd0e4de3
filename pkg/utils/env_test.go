package utils

import (
	"os"
	"testing"
)

func TestGetEnvReturnsValue(t *testing.T) {
	os.Setenv("FOO", "bar")
	defer os.Unsetenv("FOO")

	got := GetEnv("FOO")
	if got != "bar" {
		t.Errorf("Expected 'bar', got '%s'", got)
	}
}

func TestGetEnvReturnsEmptyIfNotSet(t *testing.T) {
	got := GetEnv("DOES_NOT_EXIST")
	if got != "" {
		t.Errorf("Expected empty string, got '%s'", got)
	}
}

func TestGetEnvOrFallsBack(t *testing.T) {
	got := GetEnvOr("DOES_NOT_EXIST", "fallback")
	if got != "fallback" {
		t.Errorf("Expected 'fallback', got '%s'", got)
	}

	os.Setenv("FOO", "bar")
	defer os.Unsetenv("FOO")
	if got := GetEnvOr("FOO", "fallback"); got != "bar" {
		t.Errorf("Expected 'bar', got '%s'", got)
	}
}
