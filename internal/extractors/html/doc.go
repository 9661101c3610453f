// Package html provides an Extractor for HTML documents.
//
// The page text is rendered from the parsed node tree with block elements
// on their own lines; script, style and similar elements are dropped.
// Every top-level <table> becomes an ExtractedTable.
package html
