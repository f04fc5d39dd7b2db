package main

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port          int            `json:"port"`
	Env           string         `json:"env"`
	Pepper        string         `json:"pepper"`
	JWTSecret     string         `json:"jwt_secret"`
	ClientURL     string         `json:"client_url"`
	RevalidateURL string         `json:"revalidate_url"`
	Database      PostgresConfig `json:"database"`
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (pc PostgresConfig) ConnectionInfo() string {
	info := "host=" + pc.Host + " port=" + strconv.Itoa(pc.Port) + " user=" + pc.User + " dbname=" + pc.Name + " sslmode=disable"
	if pc.Password != "" {
		info += " password=" + pc.Password
	}
	return info
}

func DefaultConfig() Config {
	return Config{
		Port:      1111,
		Env:       "dev",
		Pepper:    "secret-random-string",
		JWTSecret: "secret-jwt-key",
		ClientURL: "http://localhost:3000",
		Database:  DefaultPostgresConfig(),
	}
}

func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host: "localhost",
		Port: 5432,
		User: "postgres",
		Name: "chirper",
	}
}

// LoadConfig reads .config.json, falling back to the default dev setup when
// the file is absent. In production the file is mandatory. Values from the
// environment (optionally provided through a .env file) override the file.
func LoadConfig(prod bool) Config {
	c := DefaultConfig()

	f, err := os.Open(".config.json")
	if err != nil {
		if prod {
			panic("no .config.json found, it is required in production")
		}
	} else {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(&c); err != nil {
			panic(err)
		}
		logrus.Info("loaded .config.json")
	}

	applyEnvOverrides(&c)
	return c
}

// applyEnvOverrides lets the environment win over the config file, the usual
// container deployment path.
func applyEnvOverrides(c *Config) {
	// A missing .env file is fine, plain environment variables still apply.
	_ = godotenv.Load()

	if v := os.Getenv("CHIRPER_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("CHIRPER_PEPPER"); v != "" {
		c.Pepper = v
	}
	if v := os.Getenv("CHIRPER_REVALIDATE_URL"); v != "" {
		c.RevalidateURL = v
	}
	if v := os.Getenv("CHIRPER_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("CHIRPER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
}
