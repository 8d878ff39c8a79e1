// Package config provides configuration structures and utilities for
// siteharvest. It defines crawl behavior defaults, CLI-driven options,
// validation, and the optional YAML configuration file with per-host
// overrides.
package config
