package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the vetter configuration.
type Config struct {
	Repository            string        `yaml:"repository,omitempty" json:"repository,omitempty"`
	PullNumber            int           `yaml:"pullNumber,omitempty" json:"pullNumber,omitempty"`
	ChecklistURL          string        `yaml:"checklistURL,omitempty" json:"checklistURL,omitempty"`
	DocsAPIURL            string        `yaml:"docsAPIURL" json:"docsAPIURL"`
	GitHubAPIURL          string        `yaml:"githubAPIURL" json:"githubAPIURL"`
	Provider              string        `yaml:"provider" json:"provider"`
	Model                 string        `yaml:"model" json:"model"`
	ReviewURL             string        `yaml:"reviewURL" json:"reviewURL"`
	Retries               int           `yaml:"retries" json:"retries"`
	Concurrency           int           `yaml:"concurrency" json:"concurrency"`
	RetryDelayMs          int           `yaml:"retryDelayMs" json:"retryDelayMs"`
	RequestTimeoutSeconds int           `yaml:"requestTimeoutSeconds" json:"requestTimeoutSeconds"`
	RunTimeoutSeconds     int           `yaml:"runTimeoutSeconds" json:"runTimeoutSeconds"`
	Format                string        `yaml:"format" json:"format"`
	FailOn                string        `yaml:"failOn" json:"failOn"`
	Privacy               PrivacyConfig `yaml:"privacy" json:"privacy"`

	// Tokens come from the environment only and are never written out.
	Tokens Tokens `yaml:"-" json:"-"`
}

// PrivacyConfig controls privacy/redaction behavior.
type PrivacyConfig struct {
	RedactSecrets bool     `yaml:"redactSecrets" json:"redactSecrets"`
	RedactPaths   []string `yaml:"redactPaths,omitempty" json:"redactPaths,omitempty"`
}

// Tokens holds the credentials for the external services.
type Tokens struct {
	GitHub       string
	Docs         string
	ReviewAPIKey string
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		DocsAPIURL:            "https://api.clickup.com/api/v3",
		GitHubAPIURL:          "https://api.github.com",
		Provider:              "generate",
		Model:                 "llama3.1",
		ReviewURL:             "http://localhost:11434",
		Retries:               5,
		Concurrency:           2,
		RetryDelayMs:          1000,
		RequestTimeoutSeconds: 300,
		RunTimeoutSeconds:     1800,
		Format:                "text",
		FailOn:                "none",
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
	}
}

// RetryDelay returns the pause between attempts for one file.
func (c Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// RequestTimeout returns the timeout for a single review request.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// RunTimeout returns the bound on a whole review run.
func (c Config) RunTimeout() time.Duration {
	return time.Duration(c.RunTimeoutSeconds) * time.Second
}

// ConfigDir returns the platform-appropriate config directory for vetter.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vetter"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "vetter"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "vetter"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "vetter"), nil
	default:
		return filepath.Join(home, ".config", "vetter"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadFile loads config from config.yaml, falling back to config.json in the
// same directory. Returns zero Config and nil error if neither exists.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err == nil {
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	jsonPath := strings.TrimSuffix(path, ".yaml") + ".json"
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", jsonPath, err)
	}
	return cfg, nil
}

// Save writes the config to the config file as YAML.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Repository != "" {
		dst.Repository = src.Repository
	}
	if src.PullNumber > 0 {
		dst.PullNumber = src.PullNumber
	}
	if src.ChecklistURL != "" {
		dst.ChecklistURL = src.ChecklistURL
	}
	if src.DocsAPIURL != "" {
		dst.DocsAPIURL = src.DocsAPIURL
	}
	if src.GitHubAPIURL != "" {
		dst.GitHubAPIURL = src.GitHubAPIURL
	}
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.ReviewURL != "" {
		dst.ReviewURL = src.ReviewURL
	}
	if src.Retries > 0 {
		dst.Retries = src.Retries
	}
	if src.Concurrency > 0 {
		dst.Concurrency = src.Concurrency
	}
	if src.RetryDelayMs > 0 {
		dst.RetryDelayMs = src.RetryDelayMs
	}
	if src.RequestTimeoutSeconds > 0 {
		dst.RequestTimeoutSeconds = src.RequestTimeoutSeconds
	}
	if src.RunTimeoutSeconds > 0 {
		dst.RunTimeoutSeconds = src.RunTimeoutSeconds
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.FailOn != "" {
		dst.FailOn = src.FailOn
	}
	// A zero bool cannot be told apart from an absent key, so a file can
	// only enable redaction; --no-redact turns it off.
	dst.Privacy.RedactSecrets = src.Privacy.RedactSecrets || dst.Privacy.RedactSecrets
	if len(src.Privacy.RedactPaths) > 0 {
		dst.Privacy.RedactPaths = src.Privacy.RedactPaths
	}
}

var envKeys = map[string]string{
	"GITHUB_REPOSITORY":    "repository",
	"VETTER_PR_NUMBER":     "pullNumber",
	"VETTER_CHECKLIST_URL": "checklistURL",
	"VETTER_DOCS_API_URL":  "docsAPIURL",
	"GITHUB_API_URL":       "githubAPIURL",
	"VETTER_PROVIDER":      "provider",
	"VETTER_MODEL":         "model",
	"VETTER_REVIEW_URL":    "reviewURL",
	"VETTER_RETRIES":       "retries",
	"VETTER_CONCURRENCY":   "concurrency",
	"VETTER_FORMAT":        "format",
	"VETTER_FAIL_ON":       "failOn",
}

func mergeEnv(cfg *Config) error {
	for env, key := range envKeys {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		if err := SetField(cfg, key, v); err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
	}
	cfg.Tokens = Tokens{
		GitHub:       os.Getenv("GITHUB_TOKEN"),
		Docs:         os.Getenv("VETTER_DOCS_TOKEN"),
		ReviewAPIKey: os.Getenv("VETTER_REVIEW_API_KEY"),
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, v := range overrides {
		if v == "" {
			continue
		}
		if err := SetField(cfg, key, v); err != nil {
			return err
		}
	}
	return nil
}

// Keys lists the keys accepted by SetField.
var Keys = []string{
	"repository", "pullNumber", "checklistURL", "docsAPIURL", "githubAPIURL",
	"provider", "model", "reviewURL", "retries", "concurrency", "retryDelayMs",
	"requestTimeoutSeconds", "runTimeoutSeconds", "format", "failOn",
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "repository":
		cfg.Repository = value
	case "pullNumber":
		return setInt(&cfg.PullNumber, key, value)
	case "checklistURL":
		cfg.ChecklistURL = value
	case "docsAPIURL":
		cfg.DocsAPIURL = value
	case "githubAPIURL":
		cfg.GitHubAPIURL = value
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "reviewURL":
		cfg.ReviewURL = value
	case "retries":
		return setInt(&cfg.Retries, key, value)
	case "concurrency":
		return setInt(&cfg.Concurrency, key, value)
	case "retryDelayMs":
		return setInt(&cfg.RetryDelayMs, key, value)
	case "requestTimeoutSeconds":
		return setInt(&cfg.RequestTimeoutSeconds, key, value)
	case "runTimeoutSeconds":
		return setInt(&cfg.RunTimeoutSeconds, key, value)
	case "format":
		cfg.Format = value
	case "failOn":
		cfg.FailOn = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*dst = n
	return nil
}

var (
	validFormats   = map[string]bool{"text": true, "json": true, "markdown": true}
	validFailOn    = map[string]bool{"none": true, "minor": true, "major": true, "critical": true}
	validProviders = map[string]bool{"generate": true, "ollama": true, "openai": true}
)

// Validate checks the values every command depends on.
func (c Config) Validate() error {
	var errs []error
	if !validFormats[c.Format] {
		errs = append(errs, fmt.Errorf("format must be text, json, or markdown (got %q)", c.Format))
	}
	if !validFailOn[c.FailOn] {
		errs = append(errs, fmt.Errorf("failOn must be none, minor, major, or critical (got %q)", c.FailOn))
	}
	if !validProviders[c.Provider] {
		errs = append(errs, fmt.Errorf("provider must be generate, ollama, or openai (got %q)", c.Provider))
	}
	if c.Retries < 1 {
		errs = append(errs, fmt.Errorf("retries must be at least 1 (got %d)", c.Retries))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1 (got %d)", c.Concurrency))
	}
	if c.RetryDelayMs < 0 {
		errs = append(errs, fmt.Errorf("retryDelayMs must not be negative (got %d)", c.RetryDelayMs))
	}
	if c.RequestTimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("requestTimeoutSeconds must be at least 1 (got %d)", c.RequestTimeoutSeconds))
	}
	if c.RunTimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("runTimeoutSeconds must be at least 1 (got %d)", c.RunTimeoutSeconds))
	}
	if c.Model == "" {
		errs = append(errs, errors.New("model must be set"))
	}
	return errors.Join(errs...)
}

// ValidatePR checks the values needed to fetch and review a pull request.
func (c Config) ValidatePR() error {
	var errs []error
	if c.Repository == "" {
		errs = append(errs, errors.New("repository is not set (GITHUB_REPOSITORY or --repo)"))
	}
	if c.PullNumber < 1 {
		errs = append(errs, errors.New("pull request number is not set (VETTER_PR_NUMBER or argument)"))
	}
	if c.Tokens.GitHub == "" {
		errs = append(errs, errors.New("GITHUB_TOKEN environment variable is not set"))
	}
	return errors.Join(errs...)
}
