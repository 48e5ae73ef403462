package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStorage()
	c.normalizeWorkers()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.MediaRoot) == "" {
		c.Paths.MediaRoot = defaultMediaRoot
	}
	if c.Paths.MediaRoot, err = expandPath(c.Paths.MediaRoot); err != nil {
		return fmt.Errorf("paths.media_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.HTTPBind = strings.TrimSpace(c.Paths.HTTPBind)
	if c.Paths.HTTPBind == "" {
		c.Paths.HTTPBind = defaultHTTPBind
	}
	c.Paths.PublicURL = strings.TrimRight(strings.TrimSpace(c.Paths.PublicURL), "/")
	if c.Paths.PublicURL == "" {
		c.Paths.PublicURL = "http://" + c.Paths.HTTPBind
	}
	return nil
}

func (c *Config) normalizeStorage() {
	if c.Storage.AccessKey == "" {
		if value, ok := os.LookupEnv("MEDIAFORGE_S3_ACCESS_KEY"); ok {
			c.Storage.AccessKey = value
		}
	}
	if c.Storage.SecretKey == "" {
		if value, ok := os.LookupEnv("MEDIAFORGE_S3_SECRET_KEY"); ok {
			c.Storage.SecretKey = value
		}
	}
	c.Storage.Endpoint = strings.TrimSpace(c.Storage.Endpoint)
	if c.Storage.Endpoint == "" {
		c.Storage.Endpoint = defaultStorageEndpoint
	}
	c.Storage.PublicEndpoint = strings.TrimSpace(c.Storage.PublicEndpoint)
	if c.Storage.PublicEndpoint == "" {
		c.Storage.PublicEndpoint = c.Storage.Endpoint
	}
	if strings.TrimSpace(c.Storage.Region) == "" {
		c.Storage.Region = defaultStorageRegion
	}
	if strings.TrimSpace(c.Storage.Bucket) == "" {
		c.Storage.Bucket = defaultStorageBucket
	}
	if c.Storage.PresignExpiry <= 0 {
		c.Storage.PresignExpiry = defaultPresignExpiry
	}
}

func (c *Config) normalizeWorkers() {
	if c.Workers.Count <= 0 {
		c.Workers.Count = defaultWorkerCount
	}
	if c.Workers.PollInterval <= 0 {
		c.Workers.PollInterval = defaultPollInterval
	}
	if c.Workers.JobTimeout <= 0 {
		c.Workers.JobTimeout = defaultJobTimeout
	}
	if c.Workers.ErrorMessageLimit <= 0 {
		c.Workers.ErrorMessageLimit = defaultErrorMessageLimit
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
