package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/orgbuilder/internal/graph"
	"git.home.luguber.info/inful/orgbuilder/internal/retry"
)

// Validate checks a configuration after defaults have been applied.
func (c *Config) Validate() error {
	var errs []error

	exts := []struct{ name, value string }{
		{"scan.primary_ext", c.Scan.PrimaryExt},
		{"scan.passthrough_ext", c.Scan.PassThroughExt},
		{"scan.target_ext", c.Scan.TargetExt},
	}
	for _, ext := range exts {
		if err := validateExt(ext.name, ext.value); err != nil {
			errs = append(errs, err)
		}
	}
	if strings.EqualFold(c.Scan.PrimaryExt, c.Scan.PassThroughExt) {
		errs = append(errs, fmt.Errorf("scan.primary_ext and scan.passthrough_ext must differ (both %q)", c.Scan.PrimaryExt))
	}

	if c.Site.Marker == "" {
		errs = append(errs, errors.New("site.marker must not be empty"))
	} else if strings.ContainsAny(c.Site.Marker, `/\`) {
		errs = append(errs, fmt.Errorf("site.marker must be a single path segment, got %q", c.Site.Marker))
	}

	if c.Executor.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("executor.parallelism must not be negative, got %d", c.Executor.Parallelism))
	}
	if c.Executor.GraphFile != filepath.Base(c.Executor.GraphFile) {
		errs = append(errs, fmt.Errorf("executor.graph_file must be a file name, got %q", c.Executor.GraphFile))
	}

	if _, err := graph.ParseCollisionPolicy(c.Graph.PrimaryCollisions); err != nil {
		errs = append(errs, fmt.Errorf("graph.primary_collisions: %w", err))
	}

	if c.Watch.Debounce < 0 || c.Watch.Interval < 0 {
		errs = append(errs, errors.New("watch durations must not be negative"))
	}

	if c.Notify.NATSURL != "" && strings.ContainsAny(c.Notify.Subject, " \t*>") {
		errs = append(errs, fmt.Errorf("notify.subject must be a literal subject, got %q", c.Notify.Subject))
	}
	if _, err := retry.ParseBackoffMode(c.Notify.Backoff); err != nil {
		errs = append(errs, fmt.Errorf("notify.backoff: %w", err))
	}
	if c.Notify.Retries < 0 || c.Notify.RetryDelay < 0 {
		errs = append(errs, errors.New("notify retries and retry_delay must not be negative"))
	}

	return errors.Join(errs...)
}

func validateExt(name, ext string) error {
	switch {
	case ext == "":
		return fmt.Errorf("%s must not be empty", name)
	case !strings.HasPrefix(ext, "."):
		return fmt.Errorf("%s must start with a dot, got %q", name, ext)
	case strings.ContainsAny(ext, `/\ `):
		return fmt.Errorf("%s contains invalid characters: %q", name, ext)
	}
	return nil
}
