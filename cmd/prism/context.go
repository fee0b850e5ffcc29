package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"prism/internal/config"
	"prism/internal/corpus"
	"prism/internal/keys"
	"prism/internal/keystore"
	"prism/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce  sync.Once
	logger      *slog.Logger
	loggerClose func() error
	loggerErr   error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		var level string
		if c.logLevelFlag != nil {
			level = *c.logLevelFlag
		}
		c.logger, c.loggerClose, c.loggerErr = logging.NewFromConfig(cfg, level)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) close() error {
	if c.loggerClose == nil {
		return nil
	}
	closeFn := c.loggerClose
	c.loggerClose = nil
	return closeFn()
}

func (c *commandContext) layout() (corpus.Layout, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return corpus.Layout{}, err
	}
	return corpus.Layout{Root: cfg.Paths.DataDir}, nil
}

func (c *commandContext) openStore() (*keystore.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return keystore.Open(cfg)
}

// keySource tells where a loaded table came from.
type keySource string

const (
	keySourceCache keySource = "cache"
	keySourceFiles keySource = "files"
)

// loadKeys returns the cached key table when the cache is enabled and
// populated, and otherwise reads the configured key files.
func (c *commandContext) loadKeys(ctx context.Context, allowCache bool) (*keys.Table, keySource, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, "", err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, "", err
	}

	if allowCache && cfg.Cache.Enabled {
		table, err := c.cachedKeys(ctx)
		switch {
		case err == nil && table != nil:
			logger.Debug("keys loaded from cache", "records", table.Len())
			return table, keySourceCache, nil
		case err != nil && !errors.Is(err, keystore.ErrNotFound):
			logger.Warn("key cache unavailable; reading key files", logging.Error(err))
		}
	}

	layout := corpus.Layout{Root: cfg.Paths.DataDir}
	if err := layout.Check(cfg.Corpus.Databases); err != nil {
		return nil, "", err
	}
	table, err := keys.LoadDatabases(ctx, layout, cfg.Corpus.Databases, logger)
	if err != nil {
		return nil, "", err
	}
	return table, keySourceFiles, nil
}

func (c *commandContext) cachedKeys(ctx context.Context) (*keys.Table, error) {
	store, err := c.openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	n, err := store.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, keystore.ErrNotFound
	}
	return store.Table(ctx)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func parseFormat(value string, allowed ...string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if format == a {
			return format, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q (want one of %s)", value, strings.Join(allowed, ", "))
}
