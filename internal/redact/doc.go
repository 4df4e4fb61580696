// Package redact removes secrets from per-file diff bodies before they are
// sent to the review endpoint.
//
// Detection uses regex heuristics for common secret shapes: API keys, JWTs,
// private keys, cloud and SaaS tokens. Files whose paths match configured
// glob patterns have their whole body withheld instead.
package redact
