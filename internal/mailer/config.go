package mailer

import (
	"encoding/json"
	"fmt"
	"os"
)

// SMTPConfig holds the SMTP server settings from config.json.
type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`

	// Password is the inline fallback; PasswordEnvVar names an environment
	// variable that takes precedence when set.
	Password       string `json:"password"`
	PasswordEnvVar string `json:"password_env_var"`

	// UseTLS controls STARTTLS; absent means true.
	UseTLS *bool `json:"use_tls"`
}

// EmailConfig holds the message settings from config.json. Body is a
// text/template with GiverFirst, GiverLast, GiverFull, TargetFirst,
// TargetLast, TargetFull and TargetEmail fields available.
type EmailConfig struct {
	FromEmail string `json:"from_email"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Config is the full mailer configuration.
type Config struct {
	SMTP  SMTPConfig  `json:"smtp"`
	Email EmailConfig `json:"email"`
}

// LoadConfig reads and validates a config.json file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mailer: failed to read %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("mailer: failed to decode %s: %w", path, err)
	}
	if cfg.SMTP.Host == "" || cfg.SMTP.Port == 0 {
		return nil, fmt.Errorf("mailer: config %s is missing smtp host or port", path)
	}
	if cfg.Email.FromEmail == "" || cfg.Email.Body == "" {
		return nil, fmt.Errorf("mailer: config %s is missing email from_email or body", path)
	}
	return &cfg, nil
}

// ResolvePassword returns the SMTP password, preferring the environment
// variable named in password_env_var over the inline field.
func (c *Config) ResolvePassword() string {
	if c.SMTP.PasswordEnvVar != "" {
		if v := os.Getenv(c.SMTP.PasswordEnvVar); v != "" {
			return v
		}
	}
	return c.SMTP.Password
}

// useTLS reports whether STARTTLS is enabled (the default).
func (c *Config) useTLS() bool {
	return c.SMTP.UseTLS == nil || *c.SMTP.UseTLS
}
