package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env   string `yaml:"env"`
	Debug bool   `yaml:"debug"`
	Build string `yaml:"build"`

	API struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`

	Session struct {
		Path string `yaml:"path"`
	} `yaml:"session"`

	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`

	RollbarToken string `yaml:"rollbar_token"`
}

// NewConfig reads defaults, an optional tracker.yaml, an optional config/.env.<env> file and
// TRACKER_* environment variables, in increasing order of precedence.
func NewConfig() (*Config, error) {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, PROD
	if env == "" {
		env = "DEV"
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("build", "dev")
	v.SetDefault("api.baseURL", "http://localhost:5000")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("session.path", defaultSessionPath())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
	v.SetDefault("rollbar.token", "")

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}

	v.SetConfigName("tracker")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".tracker"))
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbar.token"),
	}
	conf.API.BaseURL = strings.TrimRight(v.GetString("api.baseURL"), "/")
	conf.API.Timeout = v.GetDuration("api.timeout")
	conf.Session.Path = v.GetString("session.path")
	conf.Log.Level = v.GetString("log.level")
	conf.Log.Pretty = v.GetBool("log.pretty")

	if conf.API.BaseURL == "" {
		return nil, errors.New("api.baseURL is required")
	}
	if conf.API.Timeout <= 0 {
		return nil, errors.Errorf("api.timeout must be positive (got %s)", conf.API.Timeout)
	}
	return conf, nil
}

// YAML renders the effective configuration, secrets masked.
func (c Config) YAML() (string, error) {
	if c.RollbarToken != "" {
		c.RollbarToken = "********"
	}
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "encoding config")
	}
	return string(out), nil
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".tracker", "session.db")
	}
	return filepath.Join(home, ".tracker", "session.db")
}
