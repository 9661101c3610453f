package extractors

import (
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
	"github.com/custodia-labs/warroom/internal/extractors/docx"
	"github.com/custodia-labs/warroom/internal/extractors/html"
	"github.com/custodia-labs/warroom/internal/extractors/markdown"
	"github.com/custodia-labs/warroom/internal/extractors/office"
	"github.com/custodia-labs/warroom/internal/extractors/pdf"
	"github.com/custodia-labs/warroom/internal/extractors/plaintext"
)

// All returns one instance of every built-in extractor.
func All() []driven.Extractor {
	return []driven.Extractor{
		pdf.New(),
		docx.New(),
		office.New(),
		html.New(),
		markdown.New(),
		plaintext.New(),
	}
}
