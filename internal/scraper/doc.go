// Package scraper fetches Notion meeting pages and extracts meeting records from them.
//
// A category page either links to one sub-page per meeting (anchors matching the
// configured link selector, "/so/" share links by default) or lists meetings inline as
// "Title @ Last Tuesday" lines followed by "Share summary" blocks. Both layouts are
// handled; linked sub-pages are preferred when present.
//
// Pages are fetched over HTTP(S), or read from disk when the URL is a file path or
// file:// URL, which allows crawling an exported workspace. Page text is extracted with
// block boundaries turned into line breaks, close to what a browser's innerText gives.
package scraper
