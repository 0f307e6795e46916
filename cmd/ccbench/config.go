package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is ccbench's configuration, loadable from a YAML file and
// overridable by flags — the same two-layer (file-then-flags) pattern
// the teacher uses for its own per-module config structs.
type Config struct {
	Workload    string `yaml:"workload"`     // "vector", "list", "hashmap", "hashset", "orderedmap", "orderedset", or "all"
	Iterations  int    `yaml:"iterations"`   // elements pushed/inserted per workload
	LogLevel    string `yaml:"log_level"`    // "debug", "info", "warn", "error"
	ReportStyle string `yaml:"report_style"` // "table" or "plain"
	MetricsAddr string `yaml:"metrics_addr"` // empty disables the /metrics server
}

func defaultConfig() Config {
	return Config{
		Workload:    "all",
		Iterations:  10000,
		LogLevel:    "info",
		ReportStyle: "table",
		MetricsAddr: "",
	}
}

// loadConfig reads path (if non-empty) over the defaults, returning an
// error wrapped with file context at this command's outermost boundary.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "opening config file %q", path)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config file %q", path)
	}
	return cfg, nil
}
