package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configVars = []string{
	"ENVIRONMENT", "PORT", "ALLOWED_ORIGINS", "AUTH_PROVIDER", "APPWRITE_ENDPOINT",
	"APPWRITE_PROJECT_ID", "JWT_SECRET", "TMDB_BASE_URL", "TMDB_API_KEY", "STORE_DRIVER",
	"MONGO_URI", "MONGO_DATABASE", "DATABASE_URL", "DISPATCH_WORKERS", "DISPATCH_QUEUE_SIZE",
}

// clearEnv blanks every variable LoadConfig reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range configVars {
		t.Setenv(name, "")
	}
}

func TestLoadConfig_DevelopmentDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, AuthProviderJWT, cfg.AuthProvider)
	assert.Equal(t, developmentJWTSecret, cfg.JWTSecret)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDBBaseURL)
	assert.Equal(t, StoreDriverMongo, cfg.StoreDriver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "moviehub", cfg.MongoDatabase)
	assert.Equal(t, 4, cfg.DispatchWorkers)
	assert.Equal(t, 256, cfg.DispatchQueueSize)
}

func TestLoadConfig_Production(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", "https://movies.example.com, https://www.movies.example.com,")
	t.Setenv("APPWRITE_ENDPOINT", "https://cloud.appwrite.io/v1")
	t.Setenv("APPWRITE_PROJECT_ID", "proj")
	t.Setenv("TMDB_API_KEY", "tmdb")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://db/moviehub")
	t.Setenv("DISPATCH_WORKERS", "8")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"https://movies.example.com", "https://www.movies.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, AuthProviderAppwrite, cfg.AuthProvider)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "postgres://db/moviehub", cfg.DatabaseDSN)
	assert.Equal(t, 8, cfg.DispatchWorkers)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non numeric port", map[string]string{"PORT": "http"}},
		{"privileged port", map[string]string{"PORT": "80"}},
		{"unknown provider", map[string]string{"AUTH_PROVIDER": "ldap"}},
		{"appwrite without project", map[string]string{"AUTH_PROVIDER": "appwrite", "APPWRITE_ENDPOINT": "https://x"}},
		{"unknown store", map[string]string{"STORE_DRIVER": "redis"}},
		{"zero workers", map[string]string{"DISPATCH_WORKERS": "0"}},
		{"bad queue size", map[string]string{"DISPATCH_QUEUE_SIZE": "many"}},
		{"production without tmdb key", map[string]string{
			"ENVIRONMENT": "production", "AUTH_PROVIDER": "jwt", "JWT_SECRET": "s",
		}},
		{"production jwt without secret", map[string]string{
			"ENVIRONMENT": "production", "AUTH_PROVIDER": "jwt", "TMDB_API_KEY": "k",
		}},
		{"production memory store", map[string]string{
			"ENVIRONMENT": "production", "AUTH_PROVIDER": "jwt", "JWT_SECRET": "s",
			"TMDB_API_KEY": "k", "STORE_DRIVER": "memory",
		}},
		{"production mongo without uri", map[string]string{
			"ENVIRONMENT": "production", "AUTH_PROVIDER": "jwt", "JWT_SECRET": "s", "TMDB_API_KEY": "k",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9100")
	// Present-but-empty variables win over the file, so this one must be truly unset.
	require.NoError(t, os.Unsetenv("MONGO_DATABASE"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9200\nMONGO_DATABASE=fromfile\n"), 0o600))

	require.NoError(t, LoadEnvFile(path))
	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "fromfile", cfg.MongoDatabase)
}
