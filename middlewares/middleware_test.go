package middlewares

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActivationRateKey(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 30, 0, time.UTC)

	assert.Equal(t, activationRateKey("key-a", now), activationRateKey("key-a", now.Add(20*time.Second)),
		"same caller in the same minute window shares a bucket")
	assert.NotEqual(t, activationRateKey("key-a", now), activationRateKey("key-b", now),
		"different callers get independent buckets")
	assert.NotEqual(t, activationRateKey("key-a", now), activationRateKey("key-a", now.Add(time.Minute)),
		"the bucket rolls over each minute")
}
