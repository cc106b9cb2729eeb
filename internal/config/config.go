package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const envFileVar = "CONFIG_ENV_FILE"

type Config struct {
	Env        string `env:"APP_ENV" env-default:"local"`
	Server     Server
	Upload     Upload
	Cloudinary Cloudinary
	Log        Log
}

type Server struct {
	Port            string        `env:"PORT" env-default:"5000" validate:"required,numeric"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" env-default:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" env-default:"0s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s" validate:"gt=0"`
}

type Upload struct {
	Dir       string `env:"UPLOAD_DIR" env-default:"uploads" validate:"required"`
	FormField string `env:"UPLOAD_FORM_FIELD" env-default:"file" validate:"required"`
}

// Cloudinary holds the provider credentials. They are handed to the remote
// client at construction time.
type Cloudinary struct {
	CloudName    string `env:"CLOUD_NAME" validate:"required"`
	APIKey       string `env:"API_KEY" validate:"required"`
	APISecret    string `env:"API_SECRET" validate:"required"`
	Folder       string `env:"CLOUDINARY_FOLDER"`
	UploadPrefix string `env:"CLOUDINARY_UPLOAD_PREFIX" validate:"omitempty,url"`
}

type Log struct {
	Level string `env:"LOG_LEVEL" env-default:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`
}

// MustLoad reads an optional .env file, then the process environment, and
// validates the result.
func MustLoad() (*Config, error) {
	envFile := os.Getenv(envFileVar)
	if envFile == "" {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Server.Port
}
