package config

import (
	"errors"
	"fmt"
	"strings"
)

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if !strings.HasPrefix(c.Path, "/") {
		errs = append(errs, fmt.Errorf("path %q must start with /", c.Path))
	}
	switch c.DuplicateJoin {
	case "replace", "reject":
	default:
		errs = append(errs, fmt.Errorf("duplicate_join must be replace or reject, got %q", c.DuplicateJoin))
	}
	switch c.Backpressure {
	case "drop", "kick":
	default:
		errs = append(errs, fmt.Errorf("backpressure must be drop or kick, got %q", c.Backpressure))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}
	if c.SendBuffer <= 0 {
		errs = append(errs, fmt.Errorf("send_buffer must be positive, got %d", c.SendBuffer))
	}
	if c.JoinRate.Limit < 0 {
		errs = append(errs, fmt.Errorf("join_rate.limit must not be negative"))
	}
	return errors.Join(errs...)
}
