package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string // "dev" enables the OTP echo in register/resend responses
	HTTP HTTP
}

type Log struct {
	Level string
	JSON  bool
}

type JWT struct {
	Secret             string
	Issuer             string
	AccessTokenTTLMin  int
	RefreshTokenTTLHrs int
}

type DB struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Redis struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	CatalogTTLSec int    `mapstructure:"catalog_ttl_sec"`
}

type Mail struct {
	Host      string
	Port      int
	From      string
	AdminAddr string `mapstructure:"admin_addr"` // fallback recipient for sale alerts and stock reports
	QueueSize int    `mapstructure:"queue_size"`
}

// AdminBootstrap is the default admin account ensured at startup.
type AdminBootstrap struct {
	Username string
	Email    string
	Password string
}

// Config is built once at process start and passed by reference; nothing
// reads ambient settings after Load returns.
type Config struct {
	App   App
	Log   Log
	JWT   JWT
	DB    DB
	Redis Redis          `mapstructure:"redis"`
	Mail  Mail           `mapstructure:"mail"`
	Admin AdminBootstrap `mapstructure:"admin"`
}

func (c *Config) Debug() bool { return c.App.Env == "dev" }

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	if c.Mail.QueueSize <= 0 {
		c.Mail.QueueSize = 128
	}
	if c.Redis.CatalogTTLSec <= 0 {
		c.Redis.CatalogTTLSec = 60
	}
	return &c
}
