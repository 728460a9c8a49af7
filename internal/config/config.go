package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/orgbuilder/internal/retry"
)

// DefaultFileName is the configuration file looked up when none is given.
const DefaultFileName = "orgbuilder.yaml"

// Config represents the application configuration.
type Config struct {
	Scan     ScanConfig     `yaml:"scan"`
	Site     SiteConfig     `yaml:"site"`
	Convert  ConvertConfig  `yaml:"convert"`
	Copy     CopyConfig     `yaml:"copy"`
	Executor ExecutorConfig `yaml:"executor"`
	Graph    GraphConfig    `yaml:"graph"`
	Watch    WatchConfig    `yaml:"watch"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Notify   NotifyConfig   `yaml:"notify"`
}

// ScanConfig selects the documents picked up from the source tree.
type ScanConfig struct {
	PrimaryExt     string `yaml:"primary_ext"`     // converted documents, ".org"
	PassThroughExt string `yaml:"passthrough_ext"` // copied documents, ".md"
	TargetExt      string `yaml:"target_ext"`      // extension of converted outputs, ".md"
	// FoldCase treats extensions and output paths case-insensitively.
	FoldCase bool `yaml:"fold_case"`
}

// SiteConfig locates the site root inside the output directory.
type SiteConfig struct {
	Marker string `yaml:"marker"`
}

// ConvertConfig describes the conversion command.
type ConvertConfig struct {
	// Command is a template; see graph.RenderConvertCommand for placeholders.
	Command    string `yaml:"command"`
	ScriptsDir string `yaml:"scripts_dir"`
	// PostProcess runs after every conversion with the output path appended.
	PostProcess string `yaml:"post_process,omitempty"`
	// ObsidianPostProcess is used as PostProcess when --obsidian is given.
	ObsidianPostProcess string `yaml:"obsidian_post_process"`
}

// CopyConfig describes the pass-through copy command.
type CopyConfig struct {
	Command string `yaml:"command"`
}

// ExecutorConfig controls the build executor.
type ExecutorConfig struct {
	Binary      string `yaml:"binary"`
	GraphFile   string `yaml:"graph_file"`
	Parallelism int    `yaml:"parallelism"` // 0 = executor default
}

// GraphConfig controls graph generation.
type GraphConfig struct {
	PrimaryCollisions string `yaml:"primary_collisions"` // ignore|warn|fail
}

// WatchConfig controls continuous rebuilds.
type WatchConfig struct {
	Debounce    Duration `yaml:"debounce"`
	Interval    Duration `yaml:"interval,omitempty"` // 0 disables the periodic rebuild
	MetricsAddr string   `yaml:"metrics_addr,omitempty"`
}

// MetricsConfig controls metrics export for one-shot runs.
type MetricsConfig struct {
	// Textfile is a node_exporter textfile collector path written after each run.
	Textfile string `yaml:"textfile,omitempty"`
}

// NotifyConfig controls run-completed notifications.
type NotifyConfig struct {
	// NATSURL enables publishing when non-empty, e.g. nats://localhost:4222.
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject"`
	// Retries after a failed publish; zero publishes once.
	Retries    int      `yaml:"retries"`
	Backoff    string   `yaml:"backoff"` // fixed|linear|exponential
	RetryDelay Duration `yaml:"retry_delay"`
}

// RetryPolicy converts the notify retry settings.
func (n NotifyConfig) RetryPolicy() retry.Policy {
	mode, err := retry.ParseBackoffMode(n.Backoff)
	if err != nil {
		mode = retry.BackoffLinear
	}
	return retry.NewPolicy(mode, n.RetryDelay.Std(), 10*n.RetryDelay.Std(), n.Retries)
}

// Duration is a time.Duration read from strings such as "300ms".
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Load loads configuration from configPath. An empty path, or the default
// file name when it does not exist, yields the defaults.
func Load(configPath string) (*Config, error) {
	if loaded, err := loadEnvFiles(); err != nil {
		slog.Warn("Could not load environment file", slog.String("error", err.Error()))
	} else {
		for _, f := range loaded {
			slog.Debug("Loaded environment variables", slog.String("path", f))
		}
	}

	cfg := &Config{}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case os.IsNotExist(err) && configPath == DefaultFileName:
			// optional
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			// Expand environment variables in the YAML content
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	if err := applyDefaults(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Init writes an example configuration file holding the defaults.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := &Config{}
	if err := applyDefaults(example); err != nil {
		return fmt.Errorf("failed to apply defaults: %w", err)
	}
	example.Watch.Interval = Duration(10 * time.Minute)
	example.Watch.MetricsAddr = ":9464"
	example.Notify.Retries = 2

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// PostProcessCommand returns the post-processing command for a run, with
// {scripts_dir} expanded. Obsidian mode uses ObsidianPostProcess unless an
// explicit PostProcess is configured.
func (c *Config) PostProcessCommand(obsidian bool) string {
	cmd := c.Convert.PostProcess
	if cmd == "" && obsidian {
		cmd = c.Convert.ObsidianPostProcess
	}
	return strings.ReplaceAll(cmd, "{scripts_dir}", c.Convert.ScriptsDir)
}
