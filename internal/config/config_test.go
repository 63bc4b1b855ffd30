package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "mysql", cfg.DBDriver)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.Equal(t, 5*time.Second, cfg.TokenSkew)
	require.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoad_FileThenEnvOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_driver: postgres
db_name: collabhub_test
jwt_secret: from-file
listen_addr: ":9090"
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, "collabhub_test", cfg.DBName)
	require.Equal(t, ":9090", cfg.ListenAddr)
	// The environment wins over the file.
	require.Equal(t, "from-env", cfg.JWTSecret)
}

func TestLoad_TokenDurationsFromEnv(t *testing.T) {
	t.Setenv("TOKEN_TTL", "12h")
	t.Setenv("TOKEN_SKEW", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 12*time.Hour, cfg.TokenTTL)
	require.Equal(t, 30*time.Second, cfg.TokenSkew)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/does/not/exist.yaml")

	_, err := Load()
	require.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBDriver:   "mysql",
		DBHost:     "db",
		DBPort:     "3306",
		DBUser:     "u",
		DBPassword: "p",
		DBName:     "collabhub",
	}
	require.Equal(t, "u:p@tcp(db:3306)/collabhub?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())

	cfg.DBDriver = "postgres"
	require.Equal(t, "host=db port=3306 user=u password=p dbname=collabhub sslmode=disable", cfg.DSN())
}
