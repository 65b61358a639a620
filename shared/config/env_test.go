package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetRequiredEnv(t *testing.T) {
	t.Setenv("DOCS_TEST_REQUIRED", "value")

	val, err := GetRequiredEnv("DOCS_TEST_REQUIRED")
	assert.NoError(t, err)
	assert.Equal(t, "value", val)

	_, err = GetRequiredEnv("DOCS_TEST_MISSING")
	assert.EqualError(t, err, "DOCS_TEST_MISSING is required")
}

func TestGetEnvAsIntWithValidation(t *testing.T) {
	val, err := GetEnvAsIntWithValidation("DOCS_TEST_INT", 5, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, 5, val)

	t.Setenv("DOCS_TEST_INT", "7")
	val, err = GetEnvAsIntWithValidation("DOCS_TEST_INT", 5, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, 7, val)

	t.Setenv("DOCS_TEST_INT", "70")
	val, err = GetEnvAsIntWithValidation("DOCS_TEST_INT", 5, 1, 10)
	assert.Error(t, err)
	assert.Equal(t, 5, val)

	t.Setenv("DOCS_TEST_INT", "seven")
	_, err = GetEnvAsIntWithValidation("DOCS_TEST_INT", 5, 1, 10)
	assert.Error(t, err)
}

func TestGetEnvAsDurationWithValidation(t *testing.T) {
	t.Setenv("DOCS_TEST_DURATION", "2m")
	d, err := GetEnvAsDurationWithValidation("DOCS_TEST_DURATION", time.Minute, time.Second, time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)

	// число трактуется как секунды
	t.Setenv("DOCS_TEST_DURATION", "30")
	d, err = GetEnvAsDurationWithValidation("DOCS_TEST_DURATION", time.Minute, time.Second, time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	t.Setenv("DOCS_TEST_DURATION", "2h")
	d, err = GetEnvAsDurationWithValidation("DOCS_TEST_DURATION", time.Minute, time.Second, time.Hour)
	assert.Error(t, err)
	assert.Equal(t, time.Minute, d)
}
