package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("WOMPI_PUBLIC_KEY", "")
	t.Setenv("WOMPI_INTEGRITY_KEY", "")
	t.Setenv("WOMPI_CURRENCY", "")
	t.Setenv("MIN_DONATION", "")

	cfg := FromEnv()

	assert.Equal(t, "COP", cfg.WompiCurrency)
	assert.Equal(t, 100, cfg.MinDonation)
	assert.Empty(t, cfg.WompiPublicKey)
	assert.False(t, cfg.GatewayConfigured())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("WOMPI_PUBLIC_KEY", "pub_test_abc")
	t.Setenv("WOMPI_INTEGRITY_KEY", "test_integrity")
	t.Setenv("MIN_DONATION", "500")
	t.Setenv("SALT_ROUND", "not-a-number")

	cfg := FromEnv()

	assert.True(t, cfg.GatewayConfigured())
	assert.Equal(t, 500, cfg.MinDonation)
	assert.Equal(t, 10, cfg.SaltRound)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "levelup", DBPort: "5433"}
	assert.Equal(t, "host=db user=u password=p dbname=levelup port=5433 sslmode=disable", cfg.PostgresDSN())

	cfg.DBDSN = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.PostgresDSN())
}
