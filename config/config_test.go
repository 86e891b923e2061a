package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(`
env = "test"

[database]
driver = "mysql"
host = "db"
port = "3306"
database = "settlement"
user = "root"
password = "secret"

[settlement]
platform_address = "0x00000000000000000000000000000000000000aa"
sweep_interval = "1m"
`), 0600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "test", cfg.Env)
	require.Equal(t, time.Minute, cfg.Settlement.SweepInterval.Duration)
	require.Equal(t, 30*24*time.Hour, cfg.Settlement.MaxAuctionDuration.Duration)
	require.Equal(t, "settlement_event", cfg.Kafka.Topic)
	require.Equal(t,
		"root:secret@tcp(db:3306)/settlement?charset=utf8mb4&parseTime=True&loc=Local&multiStatements=true",
		cfg.Database.ConnectionString())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "settlement.db", cfg.Database.ConnectionString())
}
