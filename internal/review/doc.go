// Package review turns a unified diff into a posted-ready code review.
//
// Segment splits a diff into per-file bodies. An Engine sends each file,
// together with the checklist text, to a providers.Reviewer, validating the
// response against a fixed JSON schema and retrying up to a bound. Files are
// reviewed independently on a bounded worker pool; a file whose attempts are
// exhausted records the failure as its Result rather than aborting the run.
//
// Aggregate renders the Results into a Submission: a summary with one line
// per file and one comment body per file, all anchored at CommentPosition.
package review
