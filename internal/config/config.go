package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Source is one job-board document the engine pulls and harmonizes.
type Source struct {
	Name    string `yaml:"name" json:"name"`
	URL     string `yaml:"url" json:"url"`
	Enabled bool   `yaml:"enabled" json:"enabled"`
}

// Aggregator adds a third-party domain to the built-in classifier table.
type Aggregator struct {
	Domain string `yaml:"domain" json:"domain"`
	Name   string `yaml:"name" json:"name"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Polling struct {
		IntervalSeconds int `yaml:"interval_seconds" json:"interval_seconds"`
	} `yaml:"polling" json:"polling"`

	Fetch struct {
		RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
		Burst             int     `yaml:"burst" json:"burst"`
		// keyring account holding an optional API token for authenticated
		// raw-file fetches; the token itself never lives in this file
		TokenAccount string `yaml:"token_account" json:"token_account"`
	} `yaml:"fetch" json:"fetch"`

	Harmonize struct {
		KeepUnlinked     bool         `yaml:"keep_unlinked" json:"keep_unlinked"`
		ExtraAggregators []Aggregator `yaml:"extra_aggregators" json:"extra_aggregators"`
	} `yaml:"harmonize" json:"harmonize"`

	Sources []Source `yaml:"sources" json:"sources"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
