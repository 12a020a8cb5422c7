// Package formatter renders meetings as markdown files.
//
// Each meeting becomes one document with YAML front matter followed by an info table
// and the title, summary, notes and source link sections. Several meetings can also be
// rendered into a single digest grouped by category, which the digest package reads
// back.
//
// Filenames follow meetings-{category}-{subcategory}-{date}.md, with every name part
// passed through Sanitize.
package formatter
