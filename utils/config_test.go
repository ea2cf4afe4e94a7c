package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "testsecret")
	t.Setenv("PAYMONGO_SECRET_KEY", "sk_test_abc")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("PAYMONGO_BASE_URL", "")
	t.Setenv("FRONTEND_BASE_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "bakeshop", cfg.DatabaseName)
	assert.Equal(t, "https://api.paymongo.com/v1", cfg.GatewayBaseURL)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendBaseURL)
}

func TestLoadConfigRequiredFields(t *testing.T) {
	cases := []struct {
		name    string
		missing string
	}{
		{"mongo uri", "MONGO_URI"},
		{"jwt secret", "JWT_SECRET"},
		{"gateway secret", "PAYMONGO_SECRET_KEY"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.missing, "")

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
