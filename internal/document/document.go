package document

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/DOVA00/checking-links/internal/config"
)

// MaxSize is the default upper bound for a document, in bytes.
const MaxSize = config.DefaultMaxUploadSize

var (
	// ErrLegacyDoc is returned for binary Word (.doc) files.
	ErrLegacyDoc = errors.New(".doc format is not supported, use .docx or .txt")

	// ErrUnsupportedFormat is returned for any other unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported file format, supported: .txt, .html, .htm, .docx, .pdf")

	// ErrTooLarge is returned when the document exceeds the size limit.
	ErrTooLarge = errors.New("file is too large")

	// ErrEmpty is returned for zero-byte documents.
	ErrEmpty = errors.New("file is empty")
)

// Format is a supported document type.
type Format int

const (
	// FormatText is a plain text file.
	FormatText Format = iota
	// FormatHTML is an HTML page.
	FormatHTML
	// FormatDOCX is an Office Open XML word processing document.
	FormatDOCX
	// FormatPDF is a PDF document.
	FormatPDF
)

// String returns the canonical extension of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatHTML:
		return "html"
	case FormatDOCX:
		return "docx"
	case FormatPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// DetectFormat maps a file name to its format by extension, ignoring case.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return FormatText, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".docx":
		return FormatDOCX, nil
	case ".pdf":
		return FormatPDF, nil
	case ".doc":
		return 0, ErrLegacyDoc
	default:
		return 0, ErrUnsupportedFormat
	}
}

// Extractor converts documents to text.
type Extractor struct {
	maxSize int64
	logger  *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxSize sets the largest accepted document in bytes.
func WithMaxSize(n int64) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{maxSize: MaxSize}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Extract reads the document named name from r using the default limits.
func Extract(name string, r io.Reader, size int64) (string, error) {
	return NewExtractor().Extract(name, r, size)
}

// Extract reads the document named name from r and returns its text.
// size is the declared length, or a negative value when unknown; the
// limit is enforced on the bytes actually read either way.
func (e *Extractor) Extract(name string, r io.Reader, size int64) (text string, err error) {
	format, err := DetectFormat(name)
	if err != nil {
		return "", err
	}
	if size > e.maxSize {
		return "", fmt.Errorf("%w: %s exceeds %s", ErrTooLarge, FormatSize(size), FormatSize(e.maxSize))
	}

	data, err := io.ReadAll(io.LimitReader(r, e.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	if int64(len(data)) > e.maxSize {
		return "", fmt.Errorf("%w: more than %s", ErrTooLarge, FormatSize(e.maxSize))
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}

	// Parsers of binary formats may panic on hostile input.
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Warn("document parser panicked", "file", name, "panic", rec)
			err = fmt.Errorf("failed to parse %s: malformed %s document", name, format)
		}
	}()

	switch format {
	case FormatHTML:
		text, err = htmlText(data)
	case FormatDOCX:
		text, err = docxText(data, e.maxSize)
	case FormatPDF:
		text, err = pdfText(data)
	default:
		text, err = decodeText(data)
	}
	if err != nil {
		return text, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	e.logger.Debug("document extracted",
		"file", name,
		"format", format.String(),
		"size", len(data),
		"text_length", len(text),
	)
	return text, nil
}

// FormatSize renders a byte count as "N B", "N.N KB" or "N.N MB".
func FormatSize(n int64) string {
	const (
		kb = 1024
		mb = kb * 1024
	)
	switch {
	case n < kb:
		return fmt.Sprintf("%d B", n)
	case n < mb:
		return fmt.Sprintf("%.1f KB", float64(n)/kb)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	}
}

// collapseSpace replaces every run of whitespace with a single space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
