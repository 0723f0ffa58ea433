package store

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DataSource string `yaml:"data_source"` // LIVE or MOCK

	Calendar struct {
		HorizonDays int `yaml:"horizon_days"`
	} `yaml:"calendar"`

	Screen struct {
		Benchmark          string  `yaml:"benchmark"`
		MinMarketCap       float64 `yaml:"min_market_cap"`
		MaxEarningsHistory int     `yaml:"max_earnings_history"`
		MomentumWindowDays int     `yaml:"momentum_window_days"`
		Workers            int     `yaml:"workers"`
		Weights            struct {
			Historical float64 `yaml:"historical"`
			Analyst    float64 `yaml:"analyst"`
			Momentum   float64 `yaml:"momentum"`
		} `yaml:"weights"`
	} `yaml:"screen"`

	LLM struct {
		Provider    string  `yaml:"provider"` // GEMINI or NONE
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"llm"`

	News struct {
		Enabled      bool `yaml:"enabled"`
		MaxHeadlines int  `yaml:"max_headlines"`
	} `yaml:"news"`

	Publish struct {
		OutputFile string `yaml:"output_file"`
		GitPush    bool   `yaml:"git_push"`
		Repo       string `yaml:"repo"`
		Branch     string `yaml:"branch"`
	} `yaml:"publish"`
}

func (c *Config) Validate() error {
	if c.DataSource != "LIVE" && c.DataSource != "MOCK" {
		return fmt.Errorf("invalid data_source '%s': must be 'LIVE' or 'MOCK'", c.DataSource)
	}
	if c.Calendar.HorizonDays <= 0 {
		return fmt.Errorf("calendar.horizon_days must be positive, got %d", c.Calendar.HorizonDays)
	}
	if c.Screen.Benchmark == "" {
		return errors.New("screen.benchmark cannot be empty")
	}
	if c.Screen.MinMarketCap < 0 {
		return fmt.Errorf("screen.min_market_cap cannot be negative, got %.0f", c.Screen.MinMarketCap)
	}
	if c.Screen.Workers < 1 {
		return fmt.Errorf("screen.workers must be >= 1, got %d", c.Screen.Workers)
	}
	w := c.Screen.Weights
	if sum := w.Historical + w.Analyst + w.Momentum; math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("screen.weights must sum to 1.0, got %.4f", sum)
	}
	if c.LLM.Provider != "GEMINI" && c.LLM.Provider != "NONE" {
		return fmt.Errorf("llm.provider must be 'GEMINI' or 'NONE', got '%s'", c.LLM.Provider)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

func applyDefaults(c *Config) {
	if c.DataSource == "" {
		c.DataSource = "LIVE"
	}
	if c.Calendar.HorizonDays == 0 {
		c.Calendar.HorizonDays = 14
	}
	if c.Screen.Benchmark == "" {
		c.Screen.Benchmark = "SPY"
	}
	if c.Screen.MinMarketCap == 0 {
		c.Screen.MinMarketCap = 10_000_000_000
	}
	if c.Screen.MaxEarningsHistory == 0 {
		c.Screen.MaxEarningsHistory = 8
	}
	if c.Screen.MomentumWindowDays == 0 {
		c.Screen.MomentumWindowDays = 30
	}
	if c.Screen.Workers == 0 {
		c.Screen.Workers = 1
	}
	w := &c.Screen.Weights
	if w.Historical == 0 && w.Analyst == 0 && w.Momentum == 0 {
		w.Historical = 0.5
		w.Analyst = 0.3
		w.Momentum = 0.2
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "NONE"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gemini-pro"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1024
	}
	if c.News.MaxHeadlines == 0 {
		c.News.MaxHeadlines = 5
	}
	if c.Publish.OutputFile == "" {
		c.Publish.OutputFile = "earnings_scan.json"
	}
	if c.Publish.Branch == "" {
		c.Publish.Branch = "main"
	}
}
