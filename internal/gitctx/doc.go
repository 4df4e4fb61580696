// Package gitctx collects unified diffs from the local git repository so a
// change set can be reviewed before a pull request exists.
//
// It shells out to the git binary for unstaged, staged, and revision-range
// diffs and reports basic repository metadata for labelling the run.
package gitctx
