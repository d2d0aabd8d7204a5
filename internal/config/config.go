package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "Asia/Taipei"

	configPathEnv     = "STOCKNEWS_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	ollamaModelEnv    = "OLLAMA_MODEL"
	ollamaBaseURLEnv  = "OLLAMA_BASE_URL"
	emailSenderEnv    = "EMAIL_SENDER"
	emailPasswordEnv  = "EMAIL_PASSWORD"
	emailReceiversEnv = "EMAIL_RECEIVERS"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Ollama    OllamaConfig    `yaml:"ollama"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Paths     PathsConfig     `yaml:"paths"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	Crawl     CrawlConfig     `yaml:"crawl"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// LoggingConfig controls the process-wide logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// OllamaConfig defines how to contact the local generation service.
type OllamaConfig struct {
	BaseURL        string `yaml:"baseUrl"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	ManageServer   bool   `yaml:"manageServer"`
}

// PipelineConfig tunes concurrency and score fusion.
type PipelineConfig struct {
	MaxWorkers      int     `yaml:"maxWorkers"`
	PrimaryWeight   float64 `yaml:"primaryWeight"`
	SecondaryWeight float64 `yaml:"secondaryWeight"`
}

// PathsConfig names the files the pipeline reads and writes.
type PathsConfig struct {
	NewsDir      string   `yaml:"newsDir"`
	NewsFiles    []string `yaml:"newsFiles"`
	CompanyCodes string   `yaml:"companyCodes"`
	StatsOutput  string   `yaml:"statsOutput"`
	History      string   `yaml:"history"`
}

// DatabaseConfig describes the optional Postgres audit store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// EmailConfig wires the SMTP notification channel.
type EmailConfig struct {
	SMTPHost  string   `yaml:"smtpHost"`
	SMTPPort  int      `yaml:"smtpPort"`
	Sender    string   `yaml:"sender"`
	Password  string   `yaml:"password"`
	Receivers []string `yaml:"receivers"`
}

// CrawlConfig lists the sites the crawler collaborators fetch.
type CrawlConfig struct {
	Enabled bool         `yaml:"enabled"`
	Sites   []SiteConfig `yaml:"sites"`
}

// SiteConfig describes a single site with its crawler strategy.
type SiteConfig struct {
	Name    string            `yaml:"name"`
	Crawler string            `yaml:"crawler"`
	Output  string            `yaml:"output"`
	Options map[string]string `yaml:"options"`
}

// SchedulerConfig defines the optional daily run.
type SchedulerConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Hour     int            `yaml:"hour"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the configured timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// SourcePaths resolves the news CSV paths the pipeline consumes.
func (p PathsConfig) SourcePaths() []string {
	paths := make([]string, 0, len(p.NewsFiles))
	for _, f := range p.NewsFiles {
		if filepath.IsAbs(f) {
			paths = append(paths, f)
			continue
		}
		paths = append(paths, filepath.Join(p.NewsDir, f))
	}
	return paths
}

// Load reads `.env`, the YAML configuration (if present) and applies
// environment overrides.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Crawl.Sites) == 0 {
		cfg.Crawl.Sites = defaultConfig().Crawl.Sites
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(ollamaModelEnv); v != "" {
		c.Ollama.Model = v
	}

	if v := os.Getenv(ollamaBaseURLEnv); v != "" {
		c.Ollama.BaseURL = v
	}

	if v := os.Getenv(emailSenderEnv); v != "" {
		c.Email.Sender = v
	}

	if v := os.Getenv(emailPasswordEnv); v != "" {
		c.Email.Password = v
	}

	if v := os.Getenv(emailReceiversEnv); v != "" {
		receivers := make([]string, 0)
		for _, addr := range strings.Split(v, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				receivers = append(receivers, addr)
			}
		}
		c.Email.Receivers = receivers
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Ollama.BaseURL != "" {
		base.Ollama.BaseURL = override.Ollama.BaseURL
	}
	if override.Ollama.Model != "" {
		base.Ollama.Model = override.Ollama.Model
	}
	if override.Ollama.TimeoutSeconds > 0 {
		base.Ollama.TimeoutSeconds = override.Ollama.TimeoutSeconds
	}
	if override.Ollama.ManageServer {
		base.Ollama.ManageServer = true
	}

	if override.Pipeline.MaxWorkers > 0 {
		base.Pipeline.MaxWorkers = override.Pipeline.MaxWorkers
	}
	if override.Pipeline.PrimaryWeight > 0 {
		base.Pipeline.PrimaryWeight = override.Pipeline.PrimaryWeight
	}
	if override.Pipeline.SecondaryWeight > 0 {
		base.Pipeline.SecondaryWeight = override.Pipeline.SecondaryWeight
	}

	if override.Paths.NewsDir != "" {
		base.Paths.NewsDir = override.Paths.NewsDir
	}
	if len(override.Paths.NewsFiles) > 0 {
		base.Paths.NewsFiles = override.Paths.NewsFiles
	}
	if override.Paths.CompanyCodes != "" {
		base.Paths.CompanyCodes = override.Paths.CompanyCodes
	}
	if override.Paths.StatsOutput != "" {
		base.Paths.StatsOutput = override.Paths.StatsOutput
	}
	if override.Paths.History != "" {
		base.Paths.History = override.Paths.History
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Email.SMTPHost != "" {
		base.Email.SMTPHost = override.Email.SMTPHost
	}
	if override.Email.SMTPPort > 0 {
		base.Email.SMTPPort = override.Email.SMTPPort
	}
	if override.Email.Sender != "" {
		base.Email.Sender = override.Email.Sender
	}
	if override.Email.Password != "" {
		base.Email.Password = override.Email.Password
	}
	if len(override.Email.Receivers) > 0 {
		base.Email.Receivers = override.Email.Receivers
	}

	if override.Crawl.Enabled {
		base.Crawl.Enabled = true
	}
	if len(override.Crawl.Sites) > 0 {
		base.Crawl.Sites = override.Crawl.Sites
	}

	if override.Scheduler.Enabled {
		base.Scheduler.Enabled = true
	}
	if override.Scheduler.Hour > 0 {
		base.Scheduler.Hour = override.Scheduler.Hour
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Ollama: OllamaConfig{
			BaseURL:        "http://localhost:11434",
			Model:          "gemma3:4b",
			TimeoutSeconds: 300,
			ManageServer:   true,
		},
		Pipeline: PipelineConfig{
			MaxWorkers:      4,
			PrimaryWeight:   0.6,
			SecondaryWeight: 0.4,
		},
		Paths: PathsConfig{
			NewsDir:      "news",
			NewsFiles:    []string{"cnyes_news.csv", "udn_news.csv"},
			CompanyCodes: "company_codes.csv",
			StatsOutput:  "company_sentiment_stats.csv",
			History:      "sentiment_history.csv",
		},
		Email: EmailConfig{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 587,
		},
		Crawl: CrawlConfig{
			Enabled: true,
			Sites: []SiteConfig{
				{Name: "cnyes", Crawler: "cnyes", Output: "cnyes_news.csv"},
				{Name: "udn-money", Crawler: "udn", Output: "udn_news.csv"},
			},
		},
		Scheduler: SchedulerConfig{
			Enabled:  false,
			Hour:     8,
			Timezone: defaultTimezone,
			location: tz,
		},
	}
}
