package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ZoneDCA/internal/backtest"
	"ZoneDCA/internal/calculator"
)

// Config holds all application configuration.
type Config struct {
	Simulation struct {
		TotalBudget    float64 `yaml:"total_budget"`
		Years          float64 `yaml:"years"`
		Degree         int     `yaml:"degree"`
		Bands          int     `yaml:"bands"`
		Method         string  `yaml:"method"`
		ZoneMultiplier float64 `yaml:"zone_multiplier"`
		ActiveTPZones  []int   `yaml:"active_tp_zones"`
	} `yaml:"simulation"`
	Optimize struct {
		MinDegree int `yaml:"min_degree"`
		MaxDegree int `yaml:"max_degree"`
		Step      int `yaml:"step"`
		Workers   int `yaml:"workers"`
	} `yaml:"optimize"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL     string `yaml:"base_url"`
		APIKey      string `yaml:"api_key"`
		Symbol      string `yaml:"symbol"`
		HistoryDays int    `yaml:"history_days"`
	} `yaml:"data_source"`
	Schedule struct {
		DailyCron    string `yaml:"daily_cron"`
		OptimizeCron string `yaml:"optimize_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Snapshot struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"snapshot"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Report struct {
		CSVDir string `yaml:"csv_dir"`
	} `yaml:"report"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the process environment.
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"VSTRADER_BASE_URL":  &c.DataSource.BaseURL,
		"VSTRADER_API_KEY":   &c.DataSource.APIKey,
		"SYMBOL":             &c.DataSource.Symbol,
		"HTTPS_PROXY":        &c.Proxy,
		"CRON_DAILY":         &c.Schedule.DailyCron,
		"CRON_OPTIMIZE":      &c.Schedule.OptimizeCron,
		"SQLITE_PATH":        &c.Database.SQLitePath,
		"SERVER_ADDR":        &c.Server.Addr,
		"LOG_LEVEL":          &c.Log.Level,
		"FIT_METHOD":         &c.Simulation.Method,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	floats := map[string]*float64{
		"TOTAL_BUDGET":    &c.Simulation.TotalBudget,
		"INVEST_YEARS":    &c.Simulation.Years,
		"ZONE_MULTIPLIER": &c.Simulation.ZoneMultiplier,
	}
	for key, dst := range floats {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("env %s: %w", key, err)
			}
			*dst = f
		}
	}

	if v := os.Getenv("DEGREE"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("env DEGREE: %w", err)
		}
		c.Simulation.Degree = d
	}
	if v := os.Getenv("ACTIVE_TP_ZONES"); v != "" {
		zones, err := ParseLevels(v)
		if err != nil {
			return fmt.Errorf("env ACTIVE_TP_ZONES: %w", err)
		}
		c.Simulation.ActiveTPZones = zones
	}
	if os.Getenv("LOG_PRETTY") == "true" {
		c.Log.Pretty = true
	}
	return nil
}

// ParseLevels parses a comma separated list of zone levels such as "1,2,4".
func ParseLevels(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		l, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("level %q: %w", part, err)
		}
		out = append(out, l)
	}
	return out, nil
}

func (c *Config) applyDefaults() {
	if c.Simulation.TotalBudget == 0 {
		c.Simulation.TotalBudget = 10000
	}
	if c.Simulation.Years == 0 {
		c.Simulation.Years = 5
	}
	if c.Simulation.Degree == 0 {
		c.Simulation.Degree = 2
	}
	if c.Simulation.Bands == 0 {
		c.Simulation.Bands = calculator.DefaultBands
	}
	if c.Simulation.Method == "" {
		c.Simulation.Method = string(calculator.MethodEnhanced)
	}
	if c.Simulation.ZoneMultiplier == 0 {
		c.Simulation.ZoneMultiplier = backtest.DefaultZoneMultiplier
	}
	if c.Optimize.MinDegree == 0 {
		c.Optimize.MinDegree = 1
	}
	if c.Optimize.MaxDegree == 0 {
		c.Optimize.MaxDegree = 20
	}
	if c.Optimize.Step == 0 {
		c.Optimize.Step = 2
	}
	if c.DataSource.Symbol == "" {
		c.DataSource.Symbol = "SPY"
	}
	if c.DataSource.HistoryDays == 0 {
		c.DataSource.HistoryDays = 2520
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 0 22 * * 1-5"
	}
	if c.Schedule.OptimizeCron == "" {
		c.Schedule.OptimizeCron = "0 0 9 * * 6"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/zonedca.db"
	}
	if c.Snapshot.StateFile == "" {
		c.Snapshot.StateFile = "data/snapshots.json"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Params returns the simulation parameters of a run.
func (c *Config) Params() backtest.Params {
	return backtest.Params{
		TotalBudget:      c.Simulation.TotalBudget,
		Years:            c.Simulation.Years,
		ZoneMultiplier:   c.Simulation.ZoneMultiplier,
		ActiveTakeProfit: c.Simulation.ActiveTPZones,
	}
}

// Validate checks the simulation settings shared by every binary.
func (c *Config) Validate() error {
	if c.Simulation.TotalBudget <= 0 {
		return fmt.Errorf("simulation.total_budget must be positive")
	}
	if c.Simulation.Years <= 0 {
		return fmt.Errorf("simulation.years must be positive")
	}
	if c.Simulation.Degree < 1 {
		return fmt.Errorf("simulation.degree must be at least 1")
	}
	if c.Simulation.Bands < 1 {
		return fmt.Errorf("simulation.bands must be at least 1")
	}
	if _, err := calculator.ParseMethod(c.Simulation.Method); err != nil {
		return fmt.Errorf("simulation.method: %w", err)
	}
	if c.Simulation.ZoneMultiplier < 0 {
		return fmt.Errorf("simulation.zone_multiplier must not be negative")
	}
	for _, l := range c.Simulation.ActiveTPZones {
		if l < 1 || l > c.Simulation.Bands {
			return fmt.Errorf("simulation.active_tp_zones: level %d outside 1..%d", l, c.Simulation.Bands)
		}
	}
	if c.Optimize.MinDegree < 1 || c.Optimize.MaxDegree < c.Optimize.MinDegree {
		return fmt.Errorf("optimize: invalid degree range %d..%d", c.Optimize.MinDegree, c.Optimize.MaxDegree)
	}
	if c.DataSource.HistoryDays < 2 {
		return fmt.Errorf("data_source.history_days must be at least 2")
	}
	return nil
}

// ValidateBot additionally checks the settings the long-running bot needs.
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}
