// Package config resolves the CLI configuration from flags, environment,
// .env files and an optional smartnotes.yaml, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/aretw0/smartnotes/internal/platform"
	"github.com/aretw0/smartnotes/pkg/ai"
	"github.com/aretw0/smartnotes/pkg/core"
)

// EnvPrefix prefixes every environment variable (SMARTNOTES_DATA, SMARTNOTES_AI_MODEL, ...).
const EnvPrefix = "SMARTNOTES"

// Keys understood by the loader. Nested keys map to env vars with "." replaced by "_".
const (
	KeyConfig   = "config"
	KeyData     = "data"
	KeyAdapter  = "adapter"
	KeyAdmin    = "admin"
	KeyLocale   = "locale"
	KeyTimeZone = "timezone"
	KeyVerbose  = "verbose"
	KeyInbox    = "inbox"

	KeyAIAPIKey  = "ai.api_key"
	KeyAIModel   = "ai.model"
	KeyAIBaseURL = "ai.base_url"
	KeyAITimeout = "ai.timeout"
	KeyAIRPM     = "ai.rpm"
)

// AI holds the settings of the AI collaborator.
type AI struct {
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"rpm"`
}

// Config is the resolved CLI configuration.
type Config struct {
	DataDir  string `mapstructure:"data"`
	Adapter  string `mapstructure:"adapter"`
	Admin    bool   `mapstructure:"admin"`
	Locale   string `mapstructure:"locale"`
	TimeZone string `mapstructure:"timezone"`
	Verbose  bool   `mapstructure:"verbose"`
	Inbox    string `mapstructure:"inbox"`
	AI       AI     `mapstructure:"ai"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// RegisterFlags declares the persistent flags the loader binds.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(KeyConfig, "", "config file (default: smartnotes.yaml in the project root or $HOME/.config/smartnotes)")
	fs.String(KeyData, "", "data directory (default: nearest .smartnotes or $HOME/.smartnotes)")
	fs.String(KeyAdapter, platform.DefaultAdapter, "storage adapter: "+strings.Join(platform.Adapters(), ", "))
	fs.Bool(KeyAdmin, false, "open the session with elevated privilege")
	fs.String(KeyLocale, "", "BCP 47 language tag used for sorting (e.g. pt-BR)")
	fs.String("tz", "", "IANA time zone used for date ranges (default: local)")
	fs.BoolP(KeyVerbose, "v", false, "enable verbose logging")
}

// Load resolves the configuration. flags may be nil.
func Load(flags *pflag.FlagSet) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyAdapter, platform.DefaultAdapter)
	v.SetDefault(KeyAIModel, ai.DefaultModel)
	v.SetDefault(KeyAITimeout, ai.DefaultTimeout)
	v.SetDefault(KeyAIRPM, ai.DefaultRPM)
	_ = v.BindEnv(KeyAIAPIKey, EnvPrefix+"_AI_API_KEY", "OPENAI_API_KEY")
	for _, key := range []string{KeyData, KeyAdmin, KeyLocale, KeyTimeZone, KeyVerbose, KeyInbox, KeyAIModel, KeyAIBaseURL, KeyAITimeout, KeyAIRPM} {
		_ = v.BindEnv(key)
	}

	if flags != nil {
		for key, name := range map[string]string{
			KeyConfig: KeyConfig, KeyData: KeyData, KeyAdapter: KeyAdapter, KeyAdmin: KeyAdmin,
			KeyLocale: KeyLocale, KeyTimeZone: "tz", KeyVerbose: KeyVerbose,
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, err
				}
			}
		}
	}

	root, _ := platform.FindRoot(".")
	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(strings.TrimSuffix(platform.ConfigFileName, filepath.Ext(platform.ConfigFileName)))
		v.SetConfigType("yaml")
		if root != "" {
			v.AddConfigPath(root)
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "smartnotes"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	c.File = v.ConfigFileUsed()

	if c.DataDir == "" {
		c.DataDir = defaultDataDir(root)
	}
	if c.Inbox == "" {
		c.Inbox = filepath.Join(c.DataDir, "inbox")
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func defaultDataDir(root string) string {
	if root != "" {
		return filepath.Join(root, platform.DataDirName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, platform.DataDirName)
	}
	return platform.DataDirName
}

// Validate checks the adapter name, locale and time zone.
func (c Config) Validate() error {
	adapters := make([]interface{}, 0, 4)
	for _, a := range platform.Adapters() {
		adapters = append(adapters, a)
	}
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Adapter, validation.Required, validation.In(adapters...)),
		validation.Field(&c.Locale, validation.By(func(value interface{}) error {
			if s, _ := value.(string); s != "" {
				if _, err := language.Parse(s); err != nil {
					return errors.New("must be a BCP 47 language tag")
				}
			}
			return nil
		})),
		validation.Field(&c.TimeZone, validation.By(func(value interface{}) error {
			if s, _ := value.(string); s != "" {
				if _, err := time.LoadLocation(s); err != nil {
					return errors.New("must be an IANA time zone")
				}
			}
			return nil
		})),
	)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return validation.ValidateStruct(&c.AI,
		validation.Field(&c.AI.RequestsPerMinute, validation.Min(0)),
	)
}

// CoreLocale returns the locale used by the view engine.
func (c Config) CoreLocale() core.Locale {
	loc := core.DefaultLocale()
	if c.TimeZone != "" {
		if tz, err := time.LoadLocation(c.TimeZone); err == nil {
			loc.Location = tz
		}
	}
	if c.Locale != "" {
		if tag, err := language.Parse(c.Locale); err == nil {
			loc.Language = tag
		}
	}
	return loc
}

// PlatformOptions translates the configuration into session options.
func (c Config) PlatformOptions(logger *slog.Logger) []platform.Option {
	return []platform.Option{
		platform.WithAdapter(c.Adapter),
		platform.WithPrivileged(c.Admin),
		platform.WithLogger(logger),
	}
}

// AIConfig returns the transformer configuration.
func (c Config) AIConfig(logger *slog.Logger) ai.Config {
	return ai.Config{
		APIKey:            c.AI.APIKey,
		Model:             c.AI.Model,
		BaseURL:           c.AI.BaseURL,
		Timeout:           c.AI.Timeout,
		RequestsPerMinute: c.AI.RequestsPerMinute,
		Logger:            logger,
	}
}
