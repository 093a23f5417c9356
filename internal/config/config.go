package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type CheckoutConfig struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	OrderDB    `yaml:"order_db"`
	LogConfig  `yaml:"log_config"`
	Gateway    `yaml:"payment-gateway"`
	KafkaService `yaml:"kafka-service"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type OrderDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type Gateway struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key" env:"GATEWAY_API_KEY"`
	APISecret  string `yaml:"api_secret" env:"GATEWAY_API_SECRET"`
	TerminalID string `yaml:"terminal_id"`
	OkURL      string `yaml:"ok_url"`
	KoURL      string `yaml:"ko_url"`
}

type KafkaService struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic"`
}

func MustLoad() *CheckoutConfig {

	// Processing env config variable and file
	configPath := os.Getenv("CHECKOUT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("CHECKOUT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg CheckoutConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
