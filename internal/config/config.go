package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config.yml"

type AppConfig struct {
	Username string `yaml:"username"`
	Version  string `yaml:"version"`

	API      APIConfig      `yaml:"api"`
	Chat     ChatConfig     `yaml:"chat"`
	Draw     DrawConfig     `yaml:"offer_draw"`
	Engine   EngineConfig   `yaml:"engine"`
	Openings OpeningsConfig `yaml:"openings"`
	// Books maps a display name to a polyglot file.
	Books      map[string]string `yaml:"books"`
	Tablebases []TablebaseConfig `yaml:"tablebases"`

	RedisURL    string `yaml:"redis_url"`
	DatabaseURL string `yaml:"database_url"`
	MetricsAddr string `yaml:"metrics_addr"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	WSURL   string `yaml:"ws_url"`
	Token   string `yaml:"token"`
	// Egress is http, ws or auto.
	Egress            string `yaml:"egress"`
	DryRun            bool   `yaml:"dry_run"`
	ReconnectAttempts int    `yaml:"reconnect_attempts"`
}

type ChatConfig struct {
	Commands bool `yaml:"commands"`
	// MessagesDir holds YAML files overriding the built-in replies.
	MessagesDir        string `yaml:"messages_dir"`
	Greeting           string `yaml:"greeting"`
	Goodbye            string `yaml:"goodbye"`
	GreetingSpectators string `yaml:"greeting_spectators"`
	GoodbyeSpectators  string `yaml:"goodbye_spectators"`
}

type DrawConfig struct {
	Enabled          bool `yaml:"enabled"`
	Score            int  `yaml:"score"`
	MinGameLength    int  `yaml:"min_game_length"`
	ConsecutiveMoves int  `yaml:"consecutive_moves"`
}

type EngineConfig struct {
	Path     string            `yaml:"path"`
	Name     string            `yaml:"name"`
	Threads  int               `yaml:"threads"`
	HashMB   int               `yaml:"hash"`
	Capacity int               `yaml:"capacity"`
	MoveTime int               `yaml:"movetime_ms"`
	Depth    int               `yaml:"depth"`
	Nodes    int               `yaml:"nodes"`
	Options  map[string]string `yaml:"uci_options"`
}

type OpeningsConfig struct {
	File string `yaml:"file"`
}

type TablebaseConfig struct {
	Name      string `yaml:"name"`
	Enabled   bool   `yaml:"enabled"`
	MaxPieces int    `yaml:"max_pieces"`
}

func defaults() *AppConfig {
	return &AppConfig{
		Version: "dev",
		API:     APIConfig{Egress: "http", ReconnectAttempts: 10},
		Chat:    ChatConfig{Commands: true},
		Draw:    DrawConfig{Score: 0, MinGameLength: 35, ConsecutiveMoves: 10},
		Engine:  EngineConfig{Threads: 1, HashMB: 64, Capacity: 2, MoveTime: 1000},
	}
}

// Load reads the YAML file named by CHATTER_CONFIG (config.yml by default,
// optional), applies environment overrides and validates the result.
func Load() (*AppConfig, error) {
	path := strings.TrimSpace(os.Getenv("CHATTER_CONFIG"))
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	cfg, err := LoadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			cfg = defaults()
		} else {
			return nil, err
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile parses one YAML file on top of the defaults.
func LoadFile(path string) (*AppConfig, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	setString(&cfg.Username, "BOT_USERNAME")
	setString(&cfg.API.BaseURL, "API_BASE_URL")
	setString(&cfg.API.WSURL, "API_WS_URL")
	setString(&cfg.API.Token, "API_TOKEN")
	setString(&cfg.API.Egress, "EGRESS_MODE")
	setString(&cfg.Openings.File, "OPENINGS_FILE")
	setString(&cfg.Engine.Path, "STOCKFISH_PATH")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.MetricsAddr, "METRICS_ADDR")

	if v := strings.TrimSpace(os.Getenv("CHAT_COMMANDS")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Chat.Commands = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("ENGINE_CAPACITY")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Engine.Capacity = n
		}
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate checks required fields and normalizes enumerations.
// ws/auto 이그레스는 WebSocket URL 필수.
func (c *AppConfig) Validate() error {
	c.Username = strings.TrimSpace(c.Username)
	if c.Username == "" {
		return errors.New("BOT_USERNAME is required")
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("API_BASE_URL is required")
	}
	c.API.Egress = strings.ToLower(strings.TrimSpace(c.API.Egress))
	switch c.API.Egress {
	case "http", "ws", "auto":
	case "":
		c.API.Egress = "http"
	default:
		return fmt.Errorf("unknown egress mode %q", c.API.Egress)
	}
	if c.API.Egress != "http" && strings.TrimSpace(c.API.WSURL) == "" {
		return fmt.Errorf("API_WS_URL is required for egress mode %s", c.API.Egress)
	}
	for _, tb := range c.Tablebases {
		if tb.Enabled && tb.MaxPieces <= 0 {
			return fmt.Errorf("tablebase %q needs max_pieces", tb.Name)
		}
	}
	return nil
}
