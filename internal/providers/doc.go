// Package providers implements the Reviewer interface for the review
// endpoints vetter can talk to.
//
// The default backend is a text-generation endpoint that accepts
// {model, prompt, stream} and answers with {response}; an OpenAI-compatible
// chat completions backend is available as an alternative.
//
// Clients make exactly one HTTP call per Review. Retrying is the caller's
// job, so a failed call surfaces immediately with an error describing the
// transport or HTTP status failure. HTTP clients are plain fields so tests
// can point them at local httptest servers.
//
// Use [New] to obtain a Reviewer by provider name.
package providers
