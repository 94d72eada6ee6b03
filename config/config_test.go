package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("WEAVEWEAR_TEST_PORT", "8080")
	assert.Equal(t, "8080", GetEnv("WEAVEWEAR_TEST_PORT", "5000"))
	assert.Equal(t, "5000", GetEnv("WEAVEWEAR_TEST_MISSING", "5000"))
}

func TestGetEnvEmptyValueCountsAsSet(t *testing.T) {
	t.Setenv("WEAVEWEAR_TEST_EMPTY", "")
	assert.Equal(t, "", GetEnv("WEAVEWEAR_TEST_EMPTY", "fallback"))
}
