// Package cli wires together the Cobra command tree for the vetter binary.
//
// It defines the root command and its subcommands (review pr, review diff,
// review local, checklist, config, doctor, version), binds flags, reads
// configuration, runs the review pipeline under a cancellable context, and
// returns deterministic exit codes for CI gating.
package cli
