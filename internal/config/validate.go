package config

import (
	"errors"
	"fmt"
	"strings"

	"prism/internal/corpus"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCorpus(); err != nil {
		return err
	}
	if err := c.validateProtocol(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set (or export PRISM_DATA_DIR)")
	}
	if c.Cache.Enabled && c.Paths.CacheDir == "" {
		return errors.New("paths.cache_dir must be set when cache.enabled is true")
	}
	return nil
}

func (c *Config) validateCorpus() error {
	if len(c.Corpus.Databases) == 0 {
		return errors.New("corpus.databases must include at least one database")
	}
	var unknown []string
	for _, db := range c.Corpus.Databases {
		if !corpus.IsKnownDatabase(db) {
			unknown = append(unknown, db)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("corpus.databases: unknown database(s) %s (known: %s)",
			strings.Join(unknown, ", "), strings.Join(corpus.Databases, ", "))
	}
	return nil
}

func (c *Config) validateProtocol() error {
	for key, tmpl := range c.Protocol.Preprocessors {
		if key == "" {
			return errors.New("protocol.preprocessors keys must not be empty")
		}
		if tmpl == "" {
			return fmt.Errorf("protocol.preprocessors.%s must not be empty", key)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
