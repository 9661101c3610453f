// Package pdf provides an Extractor implementation for PDF documents.
//
// Page text and positioned text rows come from ledongthuc/pdf. Tables are
// inferred from the row layout: consecutive rows that break into two or
// more widely spaced cells form a table. The metadata pass reads the page
// count through pdfcpu in relaxed validation mode and title, author and
// subject from the trailer's Info dictionary.
package pdf
