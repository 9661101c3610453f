package domain

// MIME types handled by the bundled extractors.
const (
	MIMETypePDF      = "application/pdf"
	MIMETypeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMETypeODT      = "application/vnd.oasis.opendocument.text"
	MIMETypePPTX     = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MIMETypeHTML     = "text/html"
	MIMETypeXHTML    = "application/xhtml+xml"
	MIMETypeMarkdown = "text/markdown"
	MIMETypePlain    = "text/plain"
	MIMETypeCSV      = "text/csv"
	MIMETypeOctet    = "application/octet-stream"
)
