package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/orgbuilder/internal/executor"
	"git.home.luguber.info/inful/orgbuilder/internal/graph"
	"git.home.luguber.info/inful/orgbuilder/internal/notify"
	"git.home.luguber.info/inful/orgbuilder/internal/retry"
	"git.home.luguber.info/inful/orgbuilder/internal/site"
)

const (
	DefaultPrimaryExt          = ".org"
	DefaultPassThroughExt      = ".md"
	DefaultTargetExt           = ".md"
	DefaultExecutorBinary      = "ninja"
	DefaultDebounce            = 300 * time.Millisecond
	DefaultObsidianPostProcess = "{scripts_dir}/obs_postproc.py"
)

// scriptsDirFunc locates the directory holding the converter scripts. It
// defaults to the directory of the running executable.
var scriptsDirFunc = func() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

func applyDefaults(cfg *Config) error {
	if cfg.Scan.PrimaryExt == "" {
		cfg.Scan.PrimaryExt = DefaultPrimaryExt
	}
	if cfg.Scan.PassThroughExt == "" {
		cfg.Scan.PassThroughExt = DefaultPassThroughExt
	}
	if cfg.Scan.TargetExt == "" {
		cfg.Scan.TargetExt = DefaultTargetExt
	}
	if cfg.Site.Marker == "" {
		cfg.Site.Marker = site.DefaultMarker
	}

	if cfg.Convert.Command == "" {
		cfg.Convert.Command = graph.DefaultConvertTemplate
	}
	if cfg.Convert.ScriptsDir == "" {
		dir, err := scriptsDirFunc()
		if err != nil {
			return fmt.Errorf("locate scripts directory: %w", err)
		}
		cfg.Convert.ScriptsDir = dir
	}
	if cfg.Convert.ObsidianPostProcess == "" {
		cfg.Convert.ObsidianPostProcess = DefaultObsidianPostProcess
	}
	if cfg.Copy.Command == "" {
		cfg.Copy.Command = graph.DefaultCopyCommand
	}

	if cfg.Executor.Binary == "" {
		cfg.Executor.Binary = DefaultExecutorBinary
	}
	if cfg.Executor.GraphFile == "" {
		cfg.Executor.GraphFile = executor.DefaultGraphFile
	}
	if cfg.Graph.PrimaryCollisions == "" {
		cfg.Graph.PrimaryCollisions = string(graph.CollisionWarn)
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = notify.DefaultSubject
	}
	if cfg.Notify.Backoff == "" {
		cfg.Notify.Backoff = string(retry.BackoffLinear)
	}
	if cfg.Notify.RetryDelay == 0 {
		cfg.Notify.RetryDelay = Duration(time.Second)
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = Duration(DefaultDebounce)
	}
	return nil
}
