package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Gemini   Gemini
	Log      Log
}

type Server struct {
	Port         string
	GinMode      string
	AllowOrigins []string
}

type Database struct {
	Driver   string // postgres or sqlite
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string // sqlite only
}

type Gemini struct {
	APIKey string
	Model  string
}

type Log struct {
	Level  string
	Format string
}

// ClientConfig is what the terminal client needs to reach the API.
type ClientConfig struct {
	APIURL string
}

const DefaultAPIURL = "http://localhost:3000"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "3000")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_NAME", "quizforge")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_PATH", "quizforge.db")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("QUIZ_API_URL", DefaultAPIURL)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn().Err(err).Msg("Error reading config file")
		}
	}
	return v
}

func NewConfig() (*Config, error) {
	v := newViper()

	var config Config
	config.Server.Port = v.GetString("SERVER_PORT")
	config.Server.GinMode = v.GetString("GIN_MODE")
	config.Server.AllowOrigins = splitList(v.GetString("CORS_ALLOW_ORIGINS"))

	config.Database.Driver = strings.ToLower(v.GetString("DATABASE_DRIVER"))
	config.Database.Host = v.GetString("DATABASE_HOST")
	config.Database.Port = v.GetString("DATABASE_PORT")
	config.Database.User = v.GetString("DATABASE_USER")
	config.Database.Password = v.GetString("DATABASE_PASSWORD")
	config.Database.Name = v.GetString("DATABASE_NAME")
	config.Database.SSLMode = v.GetString("DATABASE_SSLMODE")
	config.Database.Path = v.GetString("DATABASE_PATH")

	config.Gemini.APIKey = v.GetString("GEMINI_API_KEY")
	config.Gemini.Model = v.GetString("GEMINI_MODEL")

	config.Log.Level = v.GetString("LOG_LEVEL")
	config.Log.Format = v.GetString("LOG_FORMAT")

	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return nil, fmt.Errorf("invalid GIN_MODE %q: want debug, release or test", config.Server.GinMode)
	}

	log.Info().Interface("config", config.Redacted()).Msg("Config loaded")
	return &config, nil
}

// NewClientConfig reads the API base URL once; callers pass the result to
// client.New rather than consulting the environment again.
func NewClientConfig() ClientConfig {
	v := newViper()
	return ClientConfig{APIURL: strings.TrimRight(v.GetString("QUIZ_API_URL"), "/")}
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.Database.Password != "" {
		c.Database.Password = "****"
	}
	if c.Gemini.APIKey != "" {
		c.Gemini.APIKey = "****"
	}
	return c
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
