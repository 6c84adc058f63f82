package utils

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	port string

	dbPath     string
	citiesJson string

	dev                bool
	staticWebClientDir string
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		dbPath: func() string {
			dbPath := os.Getenv("DB_PATH")
			if dbPath == "" {
				dbPath = "./eventbr.db"
			}
			slog.Debug("env", "DB_PATH", dbPath)
			return dbPath
		}(),
		citiesJson: func() string {
			citiesJson := os.Getenv("CITIES_JSON")
			if citiesJson == "" {
				citiesJson = "./cidades.json"
			}
			slog.Debug("env", "CITIES_JSON", citiesJson)
			return citiesJson
		}(),

		dev: func() bool {
			dev := strings.EqualFold(os.Getenv("DEV"), "true")
			if dev {
				slog.Warn("running in dev mode, session secret is returned in the login response body")
			}
			return dev
		}(),
		staticWebClientDir: func() string {
			staticWebClientDir := os.Getenv("STATIC_WEB_CLIENT_DIR")
			if staticWebClientDir == "" {
				staticWebClientDir = "./static-web"
			}
			slog.Debug("env", "STATIC_WEB_CLIENT_DIR", staticWebClientDir)
			return staticWebClientDir
		}(),
	}
}

func (c *Config) GetPort() string {
	return c.port
}

func (c *Config) GetDBPath() string {
	return c.dbPath
}

func (c *Config) GetCitiesJson() string {
	return c.citiesJson
}

func (c *Config) GetDev() bool {
	return c.dev
}

func (c *Config) GetStaticWebClientDir() string {
	return c.staticWebClientDir
}
