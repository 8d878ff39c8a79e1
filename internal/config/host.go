package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// HostConfig holds host-specific configuration overrides.
// This allows customizing crawl behavior per target site without changing
// CLI flags between runs.
type HostConfig struct {
	// Headers are custom HTTP headers to include in requests to this host.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Workers overrides the global worker count for this host.
	// If zero, the global MaxWorkers is used.
	Workers int `yaml:"workers,omitempty"`

	// Delay overrides the global inter-batch delay for this host.
	// If zero, the global Delay is used.
	Delay time.Duration `yaml:"delay,omitempty"`

	// UserAgent overrides the global User-Agent header for this host.
	UserAgent string `yaml:"userAgent,omitempty"`

	// ExcludedExtensions overrides the global excluded-extension list.
	ExcludedExtensions []string `yaml:"excludedExtensions,omitempty"`
}

// UnmarshalYAML decodes a host configuration. Delay is written as a Go
// duration string ("500ms", "2s") since YAML has no duration type.
func (hc *HostConfig) UnmarshalYAML(value *yaml.Node) error {
	type rawHostConfig struct {
		Headers            map[string]string `yaml:"headers,omitempty"`
		Workers            int               `yaml:"workers,omitempty"`
		Delay              string            `yaml:"delay,omitempty"`
		UserAgent          string            `yaml:"userAgent,omitempty"`
		ExcludedExtensions []string          `yaml:"excludedExtensions,omitempty"`
	}

	var raw rawHostConfig
	if err := value.Decode(&raw); err != nil {
		return err
	}

	hc.Headers = raw.Headers
	hc.Workers = raw.Workers
	hc.UserAgent = raw.UserAgent
	hc.ExcludedExtensions = raw.ExcludedExtensions

	if raw.Delay != "" {
		d, err := time.ParseDuration(raw.Delay)
		if err != nil {
			return fmt.Errorf("invalid delay %q: %w", raw.Delay, err)
		}
		hc.Delay = d
	}

	return nil
}

// File represents the structure of the .siteharvest configuration file.
type File struct {
	// Hosts maps host authorities (e.g. "www.example.com") to their
	// host-specific configurations.
	Hosts map[string]HostConfig `yaml:"hosts,omitempty"`

	// Defaults contains default host configuration applied to all hosts
	// unless overridden in the host-specific configuration.
	Defaults HostConfig `yaml:"defaults,omitempty"`
}

// GetHostConfig returns the configuration for a specific host.
// It merges the host-specific configuration with defaults.
func (cf *File) GetHostConfig(host string) HostConfig {
	result := cf.Defaults

	if hc, ok := cf.Hosts[host]; ok {
		if len(hc.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range hc.Headers {
				result.Headers[k] = v
			}
		}
		if hc.Workers != 0 {
			result.Workers = hc.Workers
		}
		if hc.Delay != 0 {
			result.Delay = hc.Delay
		}
		if hc.UserAgent != "" {
			result.UserAgent = hc.UserAgent
		}
		if len(hc.ExcludedExtensions) > 0 {
			result.ExcludedExtensions = hc.ExcludedExtensions
		}
	}

	return result
}

// Apply overlays the host configuration onto the given Config.
// Only non-zero override fields take effect.
func (hc HostConfig) Apply(c *Config) {
	if hc.Workers != 0 {
		c.MaxWorkers = hc.Workers
	}
	if hc.Delay != 0 {
		c.Delay = hc.Delay
	}
	if hc.UserAgent != "" {
		c.UserAgent = hc.UserAgent
	}
	if len(hc.ExcludedExtensions) > 0 {
		c.ExcludedExtensions = hc.ExcludedExtensions
	}
}
