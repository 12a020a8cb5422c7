// Package storage manages the output folder that meeting files are written to.
//
// The folder may start with ~/ and is created on demand. Files can optionally be grouped
// into one sub-folder per meeting date (<folder>/2026-02-12/). Within a run, a filename
// that was already written gets a numeric suffix instead of being overwritten, so two
// meetings of the same category on the same day both survive.
package storage
