package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Store.URI == "" {
		errs = append(errs, fmt.Errorf("store.uri is required"))
	}
	if c.Store.Statement == "" {
		errs = append(errs, fmt.Errorf("store.statement is required"))
	}
	if c.Generation.Model == "" {
		errs = append(errs, fmt.Errorf("generation.model is required"))
	}
	if u, err := url.Parse(c.Generation.Host); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("generation.host must be an http(s) URL, got %q", c.Generation.Host))
	}
	if c.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("server.addr is required"))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout must not be negative"))
	}
	if c.Server.GenerateRPS < 0 {
		errs = append(errs, fmt.Errorf("server.generate_rps must not be negative"))
	}
	if c.Server.GenerateRPS > 0 && c.Server.GenerateBurst < 1 {
		errs = append(errs, fmt.Errorf("server.generate_burst must be at least 1 when generate_rps is set"))
	}
	if c.Local.Path == "" {
		errs = append(errs, fmt.Errorf("local.path is required"))
	}
	switch c.OutputFormat {
	case OutputAuto, OutputText, OutputJSON:
	default:
		errs = append(errs, fmt.Errorf("output must be one of auto, text, json; got %q", c.OutputFormat))
	}

	return errors.Join(errs...)
}
