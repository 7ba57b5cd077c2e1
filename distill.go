// Package distill reduces browser-rendered web pages into compact,
// task-usable artifacts: cleaned HTML, Markdown of the main article
// content, or structured records of selector-addressed fields and
// hyperlinks. The browser itself is an external collaborator driven
// through the Page interface; the value here is the normalization
// pipeline and the stabilization protocol that guards it against a
// DOM that is still settling.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., rod/,
// goquery/, sqlite/).
package distill
