package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"storesync_api/config/values"
)

type SupplierConfig struct {
	Name            string                `yaml:"name"`
	BaseURL         string                `yaml:"base_url"`
	TokenURL        string                `yaml:"token_url"`
	ClientID        string                `yaml:"client_id"`
	ClientSecret    string                `yaml:"client_secret"`
	SubscriptionKey string                `yaml:"subscription_key"`
	Defaults        values.SupplierValues `yaml:"default_values"`
}

type ServerConfig struct {
	Addr       string `yaml:"addr"`
	AuthSecret string `yaml:"auth_secret"`
}

type AppConfig struct {
	Supplier SupplierConfig `yaml:"supplier"`
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
}

func LoadConfig(filename string) (*AppConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	config := &AppConfig{}
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}
	if config.Postgres.Host == "" {
		config.Postgres = *GetPostgresConfig()
	}
	return config, nil
}
