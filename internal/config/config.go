package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config reúne as variáveis de ambiente usadas pela API.
type Config struct {
	Porta       string
	DBPath      string
	DatabaseDSN string
	ImagensDir  string
}

func Load() *Config {
	return &Config{
		Porta:       getEnv("PORT", "8080"),
		DBPath:      getEnv("DB_PATH", "tornearia.db"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		ImagensDir:  getEnv("IMAGES_DIR", filepath.Join("uploads", "images")),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Porta)
}
