package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
)

// stubExtractor treats content as plain text, one page per form feed.
// Content "UNREADABLE" fails, "PANIC" panics.
type stubExtractor struct {
	mimeTypes []string
	priority  int
	warnings  []error

	mu    sync.Mutex
	calls int
}

func newStubExtractor(mimeTypes ...string) *stubExtractor {
	if len(mimeTypes) == 0 {
		mimeTypes = []string{domain.MIMETypePlain, domain.MIMETypePDF}
	}
	return &stubExtractor{mimeTypes: mimeTypes, priority: 50}
}

func (e *stubExtractor) SupportedMIMETypes() []string { return e.mimeTypes }
func (e *stubExtractor) Priority() int                { return e.priority }

func (e *stubExtractor) Extract(
	_ context.Context, raw *domain.RawDocument, _ driven.Limits,
) (*driven.ExtractResult, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	content := string(raw.Content)
	switch content {
	case "UNREADABLE":
		return nil, domain.ErrUnreadable
	case "PANIC":
		panic("corrupt stream")
	}

	res := &driven.ExtractResult{Warnings: append([]error(nil), e.warnings...)}
	for i, text := range strings.Split(content, "\f") {
		res.Document.Pages = append(res.Document.Pages, domain.Page{PageNumber: i + 1, Text: text})
	}
	res.Document.Metadata.PageCount = len(res.Document.Pages)
	return res, nil
}

// stubLLM returns a canned reply and records the last prompt.
type stubLLM struct {
	reply      string
	err        error
	lastPrompt string
	lastOpts   driven.GenerateOptions
}

func (l *stubLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	l.lastPrompt = prompt
	l.lastOpts = opts
	return l.reply, l.err
}
func (l *stubLLM) ModelName() string { return "stub" }
func (l *stubLLM) Close() error      { return nil }

// stubMetrics serves fixed feeds.
type stubMetrics struct {
	feeds map[string][]domain.MetricsRow
	err   error
}

func (m *stubMetrics) Rows(_ context.Context, feed string) ([]domain.MetricsRow, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.feeds[feed], nil
}

// stubPrompts serves fixed templates.
type stubPrompts map[string]string

func (p stubPrompts) Load(name string) (string, error) {
	t, ok := p[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return t, nil
}
func (p stubPrompts) Reload() {}

func defaultStubPrompts() stubPrompts {
	return stubPrompts{
		driven.PromptQuestions: "company=%s n=%d\n%s",
		driven.PromptResponse:  "company=%s q=%s\n%s",
	}
}
