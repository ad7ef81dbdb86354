package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *Config

type Config struct {
	Env      string
	Debug    bool
	TestMode bool
	AppName  string
	Build    string

	// SecretKey signs locally issued dev tokens; production tokens come
	// from the identity provider.
	SecretKey string

	// external collaborators
	BackendURL     string
	DocstoreURL    string
	IdentityURL    string
	IdentityAPIKey string
	RedisURL       string

	HTTPTimeout time.Duration
	CacheTTL    time.Duration

	FrontendBaseURL string

	SendgridApiKey   string
	RollbarToken     string
	defaultFromEmail string
}

func (c *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
	}
	return *addr
}

func init() {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Shule")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "9m$z(1r&5yq+o8e_shule_dev_only_2wq#v7p!c4x^u6t")
	v.SetDefault("backendUrl", "http://127.0.0.1:8000")
	v.SetDefault("docstoreUrl", "http://127.0.0.1:8500")
	v.SetDefault("identityUrl", "http://127.0.0.1:8600")
	v.SetDefault("identityApiKey", "")
	v.SetDefault("redisUrl", "")
	v.SetDefault("httpTimeout", 30*time.Second)
	v.SetDefault("cacheTtl", time.Hour)
	v.SetDefault("frontendBaseUrl", "http://localhost:5173")
	v.SetDefault("defaultFromEmail", "noreply@localhost")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	Conf = &Config{
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         testMode,
		AppName:          v.GetString("appName"),
		Build:            v.GetString("build"),
		SecretKey:        v.GetString("secretKey"),
		BackendURL:       strings.TrimRight(v.GetString("backendUrl"), "/"),
		DocstoreURL:      strings.TrimRight(v.GetString("docstoreUrl"), "/"),
		IdentityURL:      strings.TrimRight(v.GetString("identityUrl"), "/"),
		IdentityAPIKey:   v.GetString("identityApiKey"),
		RedisURL:         v.GetString("redisUrl"),
		HTTPTimeout:      v.GetDuration("httpTimeout"),
		CacheTTL:         v.GetDuration("cacheTtl"),
		FrontendBaseURL:  v.GetString("frontendBaseUrl"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
	}
}
