package config

import (
	"io/ioutil"
	"net/url"
	"regexp"
	"time"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var log = logging.MustGetLogger("config")

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type Config struct {
	LogFile    string `yaml:"log-file"`
	LogLevel   string `yaml:"log-level"`
	ListenPort int    `yaml:"listen-port"`
	// resolve and print without delivering to the output API
	DryRun bool   `yaml:"dry-run"`
	Source Source `yaml:"source"`
	MySQL  MySQL  `yaml:"mysql"`
	Redis  Redis  `yaml:"redis"`
}

type Source struct {
	InputURL  string        `yaml:"input-url"`
	OutputURL string        `yaml:"output-url"`
	Timeout   time.Duration `yaml:"timeout"`
}

type MySQL struct {
	DSN     string        `yaml:"dsn"`
	Table   string        `yaml:"table"`
	Timeout time.Duration `yaml:"timeout"`
}

type Redis struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

func DefaultConfig() *Config {
	return &Config{
		LogFile:    "",
		LogLevel:   "info",
		ListenPort: 7890,
		Source: Source{
			InputURL:  "https://share.shub.edu.vn/api/intern-test/input",
			OutputURL: "https://share.shub.edu.vn/api/intern-test/output",
			Timeout:   10 * time.Second,
		},
		MySQL: MySQL{
			Table:   "Basic",
			Timeout: 5 * time.Second,
		},
		Redis: Redis{
			Addr: "localhost:6379",
			TTL:  10 * time.Minute,
		},
	}
}

func checkURL(name, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrapf(err, "%s", name)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("%s %q is not an absolute http(s) url", name, raw)
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := logging.LogLevel(c.LogLevel); err != nil {
		return errors.Errorf("log-level %q invalid", c.LogLevel)
	}
	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		return errors.Errorf("listen-port %d out of range", c.ListenPort)
	}
	if err := checkURL("source.input-url", c.Source.InputURL); err != nil {
		return err
	}
	if err := checkURL("source.output-url", c.Source.OutputURL); err != nil {
		return err
	}
	if c.Source.Timeout <= 0 {
		return errors.New("source.timeout must be positive")
	}
	if c.MySQL.DSN != "" {
		if !tableNamePattern.MatchString(c.MySQL.Table) {
			return errors.Errorf("mysql.table %q is not a plain identifier", c.MySQL.Table)
		}
		if c.MySQL.Timeout <= 0 {
			return errors.New("mysql.timeout must be positive")
		}
	}
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is empty")
		}
		if c.Redis.TTL < 0 {
			return errors.New("redis.ttl must not be negative")
		}
	}
	return nil
}

// Load reads path over the defaults already in c and validates the result.
func (c *Config) Load(path string) error {
	configBytes, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}

	if err = yaml.Unmarshal(configBytes, c); err != nil {
		return errors.Wrapf(err, "unmarshal config %s", path)
	}

	if err = c.Validate(); err != nil {
		return errors.Wrapf(err, "config %s", path)
	}
	log.Infof("loaded config %s", path)
	return nil
}
