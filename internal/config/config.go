package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "NEWS_HERALD_CONFIG"
	databasePathEnv  = "DATABASE_PATH"
	openAIAPIKeyEnv  = "OPENAI_API_KEY"
	openAIModelEnv   = "OPENAI_MODEL"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	editorChatIDEnv  = "EDITOR_CHAT_ID"
	channelIDEnv     = "PUBLIC_CHANNEL_ID"
	autoPublishEnv   = "AUTO_PUBLISH"
	tickSecondsEnv   = "JOB_TICK_SECONDS"
)

// Config holds every setting required across the application. It is built
// once at startup and passed explicitly into component constructors.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Telegram TelegramConfig `yaml:"telegram"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Logging  LoggingConfig  `yaml:"logging"`
	Sources  []SourceConfig `yaml:"sources"`
}

// DatabaseConfig describes the SQLite file location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// TelegramConfig wires the bot token and the two chats it talks to.
type TelegramConfig struct {
	BotToken     string `yaml:"botToken"`
	EditorChatID string `yaml:"editorChatId"`
	ChannelID    string `yaml:"channelId"`
	Handle       string `yaml:"handle"`
}

// OpenAIConfig defines how to contact the generation service.
type OpenAIConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"apiKey"`
	MaxTokens   int     `yaml:"maxTokens"`
	Temperature float64 `yaml:"temperature"`
}

// PipelineConfig carries the selection-and-publication knobs.
type PipelineConfig struct {
	PerFeedCap           int     `yaml:"perFeedCap"`
	MaxPerRun            int     `yaml:"maxPerRun"`
	MinScore             int     `yaml:"minScore"`
	Lookahead            int     `yaml:"lookahead"`
	DuplicateWindowHours int     `yaml:"duplicateWindowHours"`
	DuplicateThreshold   float64 `yaml:"duplicateThreshold"`
	AutoPublish          bool    `yaml:"autoPublish"`
	TickSeconds          int     `yaml:"tickSeconds"`
}

// DuplicateWindow resolves the rolling dedup window as a duration.
func (p PipelineConfig) DuplicateWindow() time.Duration {
	return time.Duration(p.DuplicateWindowHours) * time.Hour
}

// TickInterval resolves the scheduler period as a duration.
func (p PipelineConfig) TickInterval() time.Duration {
	return time.Duration(p.TickSeconds) * time.Second
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SourceConfig describes a single RSS source.
type SourceConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// GoogleNewsURL builds a Bulgarian Google News RSS query for a site filter.
func GoogleNewsURL(query string) string {
	return "https://news.google.com/rss/search?q=" + url.QueryEscape(query) + "&hl=bg&gl=BG&ceid=BG:bg"
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
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

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

// Validate reports missing credentials before the application starts.
func (c Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required")
	}
	if c.Telegram.EditorChatID == "" {
		return fmt.Errorf("editor chat id is required")
	}
	if c.Telegram.ChannelID == "" {
		return fmt.Errorf("public channel id is required")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai api key is required")
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv(editorChatIDEnv); v != "" {
		c.Telegram.EditorChatID = v
	}
	if v := os.Getenv(channelIDEnv); v != "" {
		c.Telegram.ChannelID = v
	}
	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}
	if v := os.Getenv(autoPublishEnv); v != "" {
		c.Pipeline.AutoPublish = v == "true"
	}
	if v := os.Getenv(tickSecondsEnv); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			c.Pipeline.TickSeconds = seconds
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.EditorChatID != "" {
		base.Telegram.EditorChatID = override.Telegram.EditorChatID
	}
	if override.Telegram.ChannelID != "" {
		base.Telegram.ChannelID = override.Telegram.ChannelID
	}
	if override.Telegram.Handle != "" {
		base.Telegram.Handle = override.Telegram.Handle
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}
	if override.OpenAI.MaxTokens > 0 {
		base.OpenAI.MaxTokens = override.OpenAI.MaxTokens
	}
	if override.OpenAI.Temperature > 0 {
		base.OpenAI.Temperature = override.OpenAI.Temperature
	}

	if override.Pipeline.PerFeedCap > 0 {
		base.Pipeline.PerFeedCap = override.Pipeline.PerFeedCap
	}
	if override.Pipeline.MaxPerRun > 0 {
		base.Pipeline.MaxPerRun = override.Pipeline.MaxPerRun
	}
	if override.Pipeline.MinScore > 0 {
		base.Pipeline.MinScore = override.Pipeline.MinScore
	}
	if override.Pipeline.Lookahead > 0 {
		base.Pipeline.Lookahead = override.Pipeline.Lookahead
	}
	if override.Pipeline.DuplicateWindowHours > 0 {
		base.Pipeline.DuplicateWindowHours = override.Pipeline.DuplicateWindowHours
	}
	if override.Pipeline.DuplicateThreshold > 0 {
		base.Pipeline.DuplicateThreshold = override.Pipeline.DuplicateThreshold
	}
	if override.Pipeline.AutoPublish {
		base.Pipeline.AutoPublish = true
	}
	if override.Pipeline.TickSeconds > 0 {
		base.Pipeline.TickSeconds = override.Pipeline.TickSeconds
	}

	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{Path: "posted_items.sqlite"},
		Telegram: TelegramConfig{Handle: "@CtrlAltBG"},
		OpenAI: OpenAIConfig{
			Endpoint:    "https://api.openai.com/v1/chat/completions",
			Model:       "gpt-4o-mini",
			MaxTokens:   800,
			Temperature: 0.3,
		},
		Pipeline: PipelineConfig{
			PerFeedCap:           10,
			MaxPerRun:            1,
			MinScore:             1,
			Lookahead:            20,
			DuplicateWindowHours: 48,
			DuplicateThreshold:   0.6,
			TickSeconds:          360,
		},
		Logging: LoggingConfig{Level: "info"},
		Sources: []SourceConfig{
			{Name: "Fakti.bg", URL: "https://fakti.bg/feed"},
			{Name: "BTA Bulgaria", URL: "https://www.bta.bg/bg/rss/free"},
			{Name: "BNT News", URL: "https://bntnews.bg/bg/rss/news.xml"},
			{Name: "Actualno Politics", URL: "https://www.actualno.com/rss/politics"},
			{Name: "24 Chasa", URL: "https://www.24chasa.bg/rss"},
			{Name: "Capital Bulgaria", URL: "https://www.capital.bg/rss/?section=bulgaria"},
			{Name: "Novini.bg via Google", URL: GoogleNewsURL("site:novini.bg")},
			{Name: "News.bg via Google", URL: GoogleNewsURL("site:news.bg")},
			{Name: "Vesti.bg via Google", URL: GoogleNewsURL("site:vesti.bg")},
			{Name: "BTV Novinite via Google", URL: GoogleNewsURL("site:btvnovinite.bg")},
			{Name: "Nova News via Google", URL: GoogleNewsURL("site:nova.bg")},
			{Name: "Darik Regions via Google", URL: GoogleNewsURL("site:dariknews.bg/regioni")},
			{Name: "Telegraph via Google", URL: GoogleNewsURL("site:telegraph.bg")},
			{Name: "Standart via Google", URL: GoogleNewsURL("site:standartnews.com")},
		},
	}
}
