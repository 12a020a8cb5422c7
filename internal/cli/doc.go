// Package cli implements the notion-meetings command line.
//
// The root command (also available as "run") crawls the configured Notion categories,
// keeps the meetings that fall on the reference date and writes one markdown file per
// meeting. Supporting commands convert an aggregated digest into per-date files, write
// a starter configuration and show how date text is normalized.
package cli
