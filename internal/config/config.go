package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	DB         `yaml:"db"`

	AdminLogin     string   `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass      string   `yaml:"admin_pass" env:"ADMIN_PASS"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:"http://localhost:5173"`
	ErrorLogPath   string   `yaml:"error_log_path" env:"ERROR_LOG_PATH" env-default:"errors.log"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type DB struct {
	User      string `yaml:"user" env:"DB_USER" env-required:"true"`
	Password  string `yaml:"password" env:"DB_PASSWORD"`
	Host      string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port      int    `yaml:"port" env:"DB_PORT" env-default:"3306"`
	Name      string `yaml:"name" env:"DB_NAME" env-required:"true"`
	ParseTime bool   `yaml:"parse_time" env:"DB_PARSE_TIME" env-default:"true"`
}

const defaultConfigPath = "./config/local.yaml"

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

// Load читает YAML-файл; переменные окружения перекрывают значения из файла.
func Load(path string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// без файла конфигурация берётся только из окружения
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
