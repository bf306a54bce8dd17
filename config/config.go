package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Database struct {
		Host     string `yaml:"host"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
		Port     string `yaml:"port"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`
	Auth struct {
		// Mode selects how bearer tokens are resolved to users:
		// "local" verifies the provider's HS256 JWT signature in-process,
		// "remote" asks the identity provider's user endpoint.
		Mode      string `yaml:"mode"`
		JWTSecret string `yaml:"jwt_secret"`
		URL       string `yaml:"url"`
		APIKey    string `yaml:"api_key"`
	} `yaml:"auth"`
	LLM struct {
		APIKey           string `yaml:"api_key"`
		BaseURL          string `yaml:"base_url"`
		Model            string `yaml:"model"`
		SystemPrompt     string `yaml:"system_prompt"`
		FallbackResponse string `yaml:"fallback_response"`
		TimeoutSeconds   int    `yaml:"timeout_seconds"`
	} `yaml:"llm"`
	Server struct {
		Port       int    `yaml:"port"`
		CORSOrigin string `yaml:"cors_origin"`
	} `yaml:"server"`
}

// GlobalConfig is the global configuration instance
var GlobalConfig Config

// DSN generates the PostgreSQL DSN from database config
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Database.Host,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.Port,
		c.Database.SSLMode,
	)
}

// LoadConfig reads and parses the YAML configuration file into GlobalConfig.
// Secrets may be supplied or overridden through the environment (a .env file
// is honored if present): DATABASE_PASSWORD, AUTH_JWT_SECRET, LLM_API_KEY.
func LoadConfig(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	GlobalConfig = Config{}
	if err := yaml.Unmarshal(data, &GlobalConfig); err != nil {
		return err
	}

	_ = godotenv.Load()
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		GlobalConfig.Database.Password = v
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		GlobalConfig.Auth.JWTSecret = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		GlobalConfig.LLM.APIKey = v
	}

	applyDefaults(&GlobalConfig)
	return validate(&GlobalConfig)
}

func applyDefaults(c *Config) {
	if c.Auth.Mode == "" {
		c.Auth.Mode = "local"
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-3.5-turbo"
	}
	if c.LLM.SystemPrompt == "" {
		c.LLM.SystemPrompt = "You are an expert and friendly AI support agent who answers questions concisely and professionally."
	}
	if c.LLM.FallbackResponse == "" {
		c.LLM.FallbackResponse = "Error: could not get a response from the AI."
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 60
	}
}

func validate(c *Config) error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("database.password is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.dbname is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.SSLMode == "" {
		return fmt.Errorf("database.sslmode is required")
	}
	switch c.Auth.Mode {
	case "local":
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required when auth.mode is local")
		}
	case "remote":
		if c.Auth.URL == "" {
			return fmt.Errorf("auth.url is required when auth.mode is remote")
		}
	default:
		return fmt.Errorf("auth.mode must be local or remote, got %q", c.Auth.Mode)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.CORSOrigin == "" {
		return fmt.Errorf("server.cors_origin is required")
	}
	return nil
}
