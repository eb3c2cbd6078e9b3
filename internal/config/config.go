package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is consulted when no --config flag is given.
const DefaultPath = "apollo-gatherer.yml"

// Config holds run defaults. CLI flags overlay whatever is loaded here.
type Config struct {
	Search struct {
		JobTitles []string `yaml:"job_titles"`
		Companies []string `yaml:"companies"`
		Country   string   `yaml:"country"`
		ListName  string   `yaml:"list_name"`
	} `yaml:"search"`

	API struct {
		BaseURL       string  `yaml:"base_url"`
		PerPage       int     `yaml:"per_page"`
		MaxPages      int     `yaml:"max_pages"`
		MaxContacts   int     `yaml:"max_contacts"`
		RequestDelay  float64 `yaml:"request_delay_seconds"`
		MaxRetries    int     `yaml:"max_retries"`
		BackoffFactor float64 `yaml:"backoff_factor"`
	} `yaml:"api"`

	Output struct {
		Path     string `yaml:"path"`
		SeenFile string `yaml:"seen_file"`
	} `yaml:"output"`
}

// Default returns the built-in run defaults.
func Default() Config {
	var cfg Config
	cfg.API.PerPage = 25
	cfg.API.RequestDelay = 0.5
	cfg.API.MaxRetries = 5
	cfg.API.BackoffFactor = 1.5
	cfg.Output.Path = "apollo_contacts.csv"
	cfg.Output.SeenFile = ".apollo_seen_emails.txt"
	return cfg
}

// Load reads a YAML defaults file over Default(). An empty path falls back
// to DefaultPath; a missing file at the fallback is fine, a missing file at
// an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
