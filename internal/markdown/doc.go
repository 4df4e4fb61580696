// Package markdown normalizes markdown fragments into plain text suitable for
// embedding in review prompts.
//
// Links, emphasis and heading markers are removed and whitespace is
// normalized, while table rows are left as-is so their columns stay aligned.
package markdown
