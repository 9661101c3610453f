// Package extractors provides implementations of the Extractor interface
// for various document formats. Each extractor turns the bytes of one
// family of MIME types into pages, tables and metadata.
//
// Extractors are registered with the ExtractorRegistry at startup.
// Formats without pages (HTML, Markdown, plain text, office documents)
// produce a single page numbered 1.
package extractors
