// Vetter reviews GitHub pull requests against a checklist kept in a
// document workspace, using a generative review endpoint.
//
// Each changed file is reviewed independently with bounded retries and
// response validation; the results are posted back as one review with a
// comment per file. Exit codes are deterministic for CI gating.
//
// Usage:
//
//	vetter review pr 42                  # review and post PR #42
//	vetter review pr --dry-run           # PR from VETTER_PR_NUMBER, no posting
//	vetter review diff change.diff       # review a diff file locally
//	git diff | vetter review diff -      # review a diff from stdin
//	vetter review local --staged         # review staged changes
//	vetter checklist <url>               # print the extracted checklist
//	vetter doctor                        # check the review endpoint
package main
