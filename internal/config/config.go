package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Port          string `yaml:"port"`
	DBPath        string `yaml:"db_path"`
	UploadDir     string `yaml:"upload_dir"`
	AdminEmail    string `yaml:"admin_email"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Port:          "8080",
		DBPath:        "data/socialnet.db",
		UploadDir:     "uploads",
		AdminEmail:    "admin@gmail.com",
		TokenTTLHours: 24,
	}
}

func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
