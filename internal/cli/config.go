package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "cafeplanner"
	configFileName = "config.yaml"
	tokenFileName  = "session"
	configDirPerm  = 0755
	configFilePerm = 0644
)

// Config is the planctl configuration file. Account is recorded on login so
// the local plan cache is keyed per account.
type Config struct {
	ServerURL string `yaml:"server_url" validate:"required,url"`
	Account   string `yaml:"account" validate:"omitempty,email"`
}

func defaultConfig() Config {
	return Config{ServerURL: "http://localhost:8080"}
}

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configDirName), nil
}

func loadConfig() (Config, string, error) {
	dir, err := configDir()
	if err != nil {
		return Config{}, "", err
	}
	path := filepath.Join(dir, configFileName)

	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, dir, nil
		}
		return Config{}, "", err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, "", fmt.Errorf("parse %s: %w", path, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, "", fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, dir, nil
}

func saveConfig(dir string, cfg Config) error {
	if err := os.MkdirAll(dir, configDirPerm); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, configFileName), data, configFilePerm)
}
