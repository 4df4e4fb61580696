// Package github provides a minimal GitHub REST API client: it fetches a
// pull request's unified diff and posts the aggregated review back as a
// COMMENT review with one comment per file.
//
// The repository comes from GITHUB_REPOSITORY or, failing that, the local
// git remote. Posting retries rate-limit and server errors with backoff.
package github
