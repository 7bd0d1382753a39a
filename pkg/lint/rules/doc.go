// Package rules provides the built-in lint rules for goyamllint.
//
// # Rule Domains
//
// Rules are grouped by the engine pass they run in:
//
//   - Line rules see one line at a time:
//     trailing-spaces, line-length, new-lines, new-line-at-end-of-file,
//     empty-lines.
//
//   - Token rules walk the token stream with a window of neighbors and may
//     keep per-file state: hyphens, colons, commas, brackets, braces,
//     document-start, document-end, key-duplicates, truthy, anchors.
//
//   - Comment rules see each comment with its neighboring tokens:
//     comments, comments-indentation.
//
// # Packs
//
// The default and relaxed packs are presets a configuration selects with
// "extends". See Packs.
//
// Importing this package registers every rule with lint.DefaultRegistry.
package rules
