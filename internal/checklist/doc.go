// Package checklist retrieves the review checklist from a hierarchical
// document workspace.
//
// A checklist URL of the form <host>/v/dc/<workspace>/<doc>/<page> names the
// root page. The page tree is fetched over HTTP, validated, walked in
// pre-order and each page's content is cleaned with [markdown.Clean]. HTML
// page content is converted to markdown first.
package checklist
