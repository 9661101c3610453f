package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAll(t *testing.T) {
	all := All()
	assert.Len(t, all, 6)

	seen := make(map[string]int)
	for _, e := range all {
		assert.NotEmpty(t, e.SupportedMIMETypes())
		for _, mt := range e.SupportedMIMETypes() {
			if prev, ok := seen[mt]; ok {
				assert.NotEqual(t, prev, e.Priority(), "ambiguous priority for %s", mt)
			}
			seen[mt] = e.Priority()
		}
	}

	assert.Contains(t, seen, "application/pdf")
	assert.Contains(t, seen, "text/plain")
}
