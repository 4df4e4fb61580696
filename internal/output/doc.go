// Package output formats a review run for humans and machines.
//
// Three formats are supported: text (a go-pretty table followed by per-file
// details), json (the full Report), and markdown (the summary and comment
// bodies exactly as they are posted).
package output
