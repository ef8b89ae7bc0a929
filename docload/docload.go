// Package docload loads question-bank source files and yields either a block
// of text or a 2D cell grid, ready for question extraction.
//
// Supported formats:
//   - .xlsx / .xls: spreadsheet (archive/zip, worksheet XML, cell grid)
//   - .docx / .doc: Microsoft Word (archive/zip, word/document.xml)
//   - .pdf: best-effort text salvage (content streams, byte-scan fallback)
//   - .txt / .csv: plain text passthrough
//   - .html / .htm: tag-stripped text
//
// Routing is pure dispatch on file extension: an unrecognized extension is an
// error and no decoder is tried. Legacy binary containers (.doc, .xls) go
// through the same zip decoders and surface a decode error when the file is
// not actually an OOXML archive.
package docload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config configures the loader.
type Config struct {
	// MaxFileSize is the maximum file size to process (default: 100 MB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// MinPDFChars is the minimum number of salvaged characters below which
	// a PDF is rejected as unusable (default: 50).
	MinPDFChars int `json:"min_pdf_chars" yaml:"min_pdf_chars"`

	// Logger for debug messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 100 * 1024 * 1024
	}
	if c.MinPDFChars <= 0 {
		c.MinPDFChars = 50
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Pipeline is the source-file loading engine.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// Detect returns the source format based on file extension.
func (p *Pipeline) Detect(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx", ".xls":
		return FormatExcel, nil
	case ".docx", ".doc":
		return FormatWord, nil
	case ".pdf":
		return FormatPDF, nil
	case ".txt", ".csv":
		return FormatText, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported format: %q (want Excel, Word, PDF, text, or HTML)", ext)
	}
}

// Load reads a source file and returns its decoded content.
func (p *Pipeline) Load(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > p.cfg.MaxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), p.cfg.MaxFileSize)
	}

	format, err := p.Detect(path)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("loading source file", "path", path, "format", format)

	doc := &Document{Path: path, Format: format}
	switch format {
	case FormatExcel:
		doc.Grid, err = extractWorkbookGrid(path)
	case FormatWord:
		doc.Text, err = extractWordText(path)
	case FormatPDF:
		doc.Text, doc.Salvage, err = salvagePDF(path, p.cfg.MinPDFChars)
	case FormatText:
		doc.Text, err = readText(path)
	case FormatHTML:
		doc.Text, err = extractHTMLText(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s (%s): %w", path, format, err)
	}

	if doc.Salvage != nil {
		p.logger.Debug("pdf salvage",
			"path", path,
			"chars", doc.Salvage.Chars,
			"printable_ratio", doc.Salvage.PrintableRatio,
			"raw_scan", doc.Salvage.RawScan)
	}
	return doc, nil
}

// SupportedExtensions returns all recognized file extensions.
func SupportedExtensions() []string {
	return []string{"xlsx", "xls", "docx", "doc", "pdf", "txt", "csv", "html", "htm"}
}
