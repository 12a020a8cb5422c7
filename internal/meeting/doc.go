// Package meeting defines the scraped meeting record and the date handling used to
// decide which meetings belong to a given day.
//
// Raw date text found on a page ("Last Tuesday @ 10am", "February 4, 2026",
// "2026年2月4日") is normalized into a canonical date with two representations: a
// display form (2026年02月04日) and a comparison form (2026-02-04). Titles without an
// explicit date field can carry numeric dates ("Weekly Sync 2/4"), which ExtractFromText
// picks up.
package meeting
