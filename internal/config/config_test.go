package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"APP_ENV":              "test",
		"APP_PORT":             "8080",
		"DB_USER":              "root",
		"DB_HOST":              "localhost",
		"DB_PORT":              "3306",
		"DB_NAME":              "barbershop",
		"JWT_SECRET":           "secret",
		"ACCESS_TOKEN_TTL_MIN": "15",
		"BCRYPT_COST":          "10",
	} {
		t.Setenv(k, v)
	}
}

func TestLoadAppliesPoolDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
	assert.Equal(t, 25, cfg.DBMaxIdleConns)
	assert.Equal(t, 30, cfg.DBConnMaxLifeMin)
}

func TestLoadReadsPoolOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("DB_MAX_IDLE_CONNS", "10")
	t.Setenv("DB_CONN_MAX_LIFE_MIN", "not-a-number")

	cfg := Load()
	assert.Equal(t, 50, cfg.DBMaxOpenConns)
	assert.Equal(t, 10, cfg.DBMaxIdleConns)
	assert.Equal(t, 30, cfg.DBConnMaxLifeMin, "garbage falls back to the default")
}
