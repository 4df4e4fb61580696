// Package config loads and merges vetter configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (GITHUB_REPOSITORY, VETTER_PR_NUMBER, VETTER_MODEL, etc.)
//  3. Config file ($XDG_CONFIG_HOME/vetter/config.yaml, or config.json)
//  4. Built-in defaults
//
// Access tokens (GITHUB_TOKEN, VETTER_DOCS_TOKEN, VETTER_REVIEW_API_KEY) are
// read from the environment only and never written to the config file.
//
// Use [Load] to obtain a merged [Config], [Save] to write it back, and
// [SetField] to update a single key.
package config
