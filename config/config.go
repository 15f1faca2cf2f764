// SPDX-License-Identifier: GPL-3.0-or-later
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigFile = "config.toml"
	ConfigFileEnv     = "MAIL_TRIAGE_CONFIG"

	StateBackendGcs    = "gcs"
	StateBackendSqlite = "sqlite"
)

type Config struct {
	DryRun                       bool
	MaxMessages                  int
	Interest                     string
	SuppressFailureNotifications bool
	Checkpoint                   bool

	State    StateConfig
	Gmail    *GmailConfig
	Imap     *ImapConfig
	OpenAI   OpenAIConfig
	Telegram *TelegramConfig
	SendGrid *SendGridConfig

	Loglevel *string
}

type StateConfig struct {
	Backend string
	Object  string

	Bucket          string
	CredentialsFile string

	Database string
}

type GmailConfig struct {
	CredentialsFile string
	TokenFile       string
	Label           string
}

type ImapConfig struct {
	Host     string
	User     string
	Password string
	Folder   string
}

type OpenAIConfig struct {
	ApiKey  string
	BaseURL string
	Model   string
}

type TelegramConfig struct {
	Token    string
	ChatId   string // numeric chat id or @channelname
	Endpoint string
}

type SendGridConfig struct {
	ApiKey  string
	Host    string
	From    string
	To      string
	Subject string
}

// Filename returns the config file location, MAIL_TRIAGE_CONFIG wins over the default.
func Filename() string {
	if f := strings.TrimSpace(os.Getenv(ConfigFileEnv)); len(f) > 0 {
		return f
	}
	return DefaultConfigFile
}

// ReadConfig decodes the toml file and lets secrets from the environment override the file values.
func ReadConfig(filename string) (*Config, error) {
	config := &Config{
		DryRun:      true,
		MaxMessages: 100,
		State: StateConfig{
			Backend:  StateBackendSqlite,
			Object:   "processed_email_ids.json",
			Database: "persistence.db",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
	}

	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	config.applyEnv()

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyEnv() {
	overrideFromEnv(&c.OpenAI.ApiKey, "OPENAI_API_KEY")
	if c.Telegram != nil {
		overrideFromEnv(&c.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	}
	if c.SendGrid != nil {
		overrideFromEnv(&c.SendGrid.ApiKey, "SENDGRID_API_KEY")
	}
	if c.Imap != nil {
		overrideFromEnv(&c.Imap.Password, "IMAP_PASSWORD")
	}
}

func overrideFromEnv(field *string, name string) {
	if v, ok := os.LookupEnv(name); ok && len(v) > 0 {
		*field = v
	}
}

func (c *Config) validate() error {
	if c.Gmail != nil && c.Imap != nil {
		return fmt.Errorf("Gmail and Imap cannot be configured at the same time")
	}
	if c.Gmail == nil && c.Imap == nil {
		return fmt.Errorf("configure either a [gmail] or an [imap] mailbox")
	}

	if c.Gmail != nil {
		if err := validateNonEmptyStringField(c.Gmail.CredentialsFile, "Gmail.CredentialsFile must not be empty, set to the OAuth client secrets file"); err != nil {
			return err
		}
		if err := validateNonEmptyStringField(c.Gmail.TokenFile, "Gmail.TokenFile must not be empty, set to the authorized token file"); err != nil {
			return err
		}
	}

	if c.Imap != nil {
		if err := validateNonEmptyStringField(c.Imap.Host, "Imap.Host must not be empty, set to host:port of the imap server"); err != nil {
			return err
		}
		if err := validateNonEmptyStringField(c.Imap.User, "Imap.User must not be empty, set to username on the imap server"); err != nil {
			return err
		}
		if err := validateNonEmptyStringField(c.Imap.Password, "Imap.Password must not be empty, set it or IMAP_PASSWORD"); err != nil {
			return err
		}
	}

	if err := validateNonEmptyStringField(c.State.Object, "State.Object must not be empty, set to the name of the state object"); err != nil {
		return err
	}
	switch c.State.Backend {
	case StateBackendGcs:
		if err := validateNonEmptyStringField(c.State.Bucket, "State.Bucket must be set if the gcs state backend is used"); err != nil {
			return err
		}
	case StateBackendSqlite:
		if err := validateNonEmptyStringField(c.State.Database, "State.Database must be set if the sqlite state backend is used"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("State.Backend must be %s or %s, got %q", StateBackendGcs, StateBackendSqlite, c.State.Backend)
	}

	if err := validateNonEmptyStringField(c.OpenAI.ApiKey, "OpenAI.ApiKey must not be empty, set it or OPENAI_API_KEY"); err != nil {
		return err
	}

	if c.Telegram == nil && c.SendGrid == nil {
		return fmt.Errorf("configure at least one notifier, [telegram] or [sendgrid]")
	}

	if c.Telegram != nil {
		if err := validateNonEmptyStringField(c.Telegram.Token, "Telegram.Token must not be empty, set it or TELEGRAM_BOT_TOKEN"); err != nil {
			return err
		}
		if err := validateNonEmptyStringField(c.Telegram.ChatId, "Telegram.ChatId must be set to the chat id or @channel to notify"); err != nil {
			return err
		}
	}

	if c.SendGrid != nil {
		if err := validateNonEmptyStringField(c.SendGrid.ApiKey, "SendGrid.ApiKey must not be empty, set it or SENDGRID_API_KEY"); err != nil {
			return err
		}
		if err := validateNonEmptyStringField(c.SendGrid.From, "SendGrid.From must not be empty"); err != nil {
			return err
		}
		if err := validateNonEmptyStringField(c.SendGrid.To, "SendGrid.To must not be empty"); err != nil {
			return err
		}
	}

	return nil
}

func validateNonEmptyStringField(field string, err string) error {
	if len(strings.TrimSpace(field)) == 0 {
		return errors.New(err)
	}

	return nil
}
