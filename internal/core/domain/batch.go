package domain

// BatchItem is the outcome of ingesting one input of a batch.
// Exactly one of Document and Err is set.
type BatchItem struct {
	// Filename is the input's filename.
	Filename string

	// Document is the ingested document on success.
	Document *Document

	// Warnings holds non-fatal problems (ErrEmpty, ErrMetadataUnavailable).
	Warnings []error

	// Err is the reason the input was rejected.
	Err error
}

// OK reports whether the item was ingested.
func (i BatchItem) OK() bool {
	return i.Err == nil && i.Document != nil
}

// BatchResult holds per-item outcomes in input order.
type BatchResult struct {
	Items []BatchItem
}

// Succeeded returns the documents that were added, in input order.
func (r BatchResult) Succeeded() []*Document {
	docs := make([]*Document, 0, len(r.Items))
	for _, item := range r.Items {
		if item.OK() {
			docs = append(docs, item.Document)
		}
	}
	return docs
}

// Failed returns the rejected items, in input order.
func (r BatchResult) Failed() []BatchItem {
	var failed []BatchItem
	for _, item := range r.Items {
		if !item.OK() {
			failed = append(failed, item)
		}
	}
	return failed
}
