package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
)

func TestExtractorRegistry_PicksHighestPriority(t *testing.T) {
	fallback := newStubExtractor(domain.MIMETypePlain)
	fallback.priority = 5
	specific := newStubExtractor(domain.MIMETypePlain)
	specific.priority = 50

	registry := NewExtractorRegistry(fallback, specific)

	_, err := registry.Extract(context.Background(),
		&domain.RawDocument{Filename: "a.txt", MIMEType: domain.MIMETypePlain, Content: []byte("x")},
		driven.Limits{})
	require.NoError(t, err)

	assert.Equal(t, 1, specific.calls)
	assert.Equal(t, 0, fallback.calls)
}

func TestExtractorRegistry_UnsupportedType(t *testing.T) {
	registry := NewExtractorRegistry(newStubExtractor(domain.MIMETypePlain))

	_, err := registry.Extract(context.Background(),
		&domain.RawDocument{Filename: "a.png", MIMEType: "image/png"}, driven.Limits{})

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.False(t, registry.Supports("image/png"))
	assert.True(t, registry.Supports(domain.MIMETypePlain))
}

func TestExtractorRegistry_SupportedMIMETypes(t *testing.T) {
	registry := NewExtractorRegistry(
		newStubExtractor(domain.MIMETypePlain, domain.MIMETypeCSV),
		newStubExtractor(domain.MIMETypeCSV, domain.MIMETypeHTML),
	)

	assert.Equal(t,
		[]string{domain.MIMETypeCSV, domain.MIMETypeHTML, domain.MIMETypePlain},
		registry.SupportedMIMETypes())
}
