package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string `toml:"env"`

	Database   DatabaseConfigs   `toml:"database"`
	ApiServer  APIServerConfigs  `toml:"api_server"`
	Auth       AuthConfigs       `toml:"auth"`
	Referral   ReferralConfigs   `toml:"referral"`
	Settlement SettlementConfigs `toml:"settlement"`
	Log        LogConfigs        `toml:"log"`
	Redis      RedisConfigs      `toml:"redis"`
	Kafka      KafkaConfigs      `toml:"kafka"`
}

type DatabaseConfigs struct {
	// Driver is either "mysql" or "sqlite".
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`

	// File is the sqlite database file, ignored by mysql.
	File string `toml:"file"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	if d.Driver == "sqlite" {
		return d.File
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&multiStatements=true",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type APIServerConfigs struct {
	Host         string   `toml:"host"`
	Port         string   `toml:"port"`
	AllowOrigins []string `toml:"allow_origins"`
	MaxLimit     int      `toml:"max_limit"`
	DefaultLimit int      `toml:"default_limit"`
}

type AuthConfigs struct {
	TokenSecret string `toml:"token_secret"`
}

type ReferralConfigs struct {
	TokenSecret string   `toml:"token_secret"`
	Expiration  Duration `toml:"expiration"`
}

type SettlementConfigs struct {
	// PlatformAddress is the wallet of the operator who may claim platform
	// shares and assign lottery winners.
	PlatformAddress    string   `toml:"platform_address"`
	SweepInterval      Duration `toml:"sweep_interval"`
	MaxAuctionDuration Duration `toml:"max_auction_duration"`
	SweepLockTTL       Duration `toml:"sweep_lock_ttl"`
}

type LogConfigs struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
	MaxAge     int    `toml:"max_age"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr  string `toml:"addr"`
	Topic string `toml:"topic"`
}

// Duration decodes TOML strings like "5m" into a time.Duration.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func Default() Configs {
	return Configs{
		Env: "local",
		Database: DatabaseConfigs{
			Driver: "sqlite",
			File:   "settlement.db",
		},
		ApiServer: APIServerConfigs{
			Host:         "localhost",
			Port:         "8080",
			MaxLimit:     50,
			DefaultLimit: 10,
		},
		Referral: ReferralConfigs{
			Expiration: Duration{30 * 24 * time.Hour},
		},
		Settlement: SettlementConfigs{
			SweepInterval:      Duration{3 * time.Minute},
			MaxAuctionDuration: Duration{30 * 24 * time.Hour},
			SweepLockTTL:       Duration{2 * time.Minute},
		},
		Log: LogConfigs{
			Level: "info",
		},
		Kafka: KafkaConfigs{
			Topic: "settlement_event",
		},
	}
}

// Load reads the TOML file on top of the default configs. An empty path
// returns the defaults.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}
