package docload

// Format identifies a question-bank source file type.
type Format string

const (
	FormatExcel Format = "excel" // .xlsx / .xls, tabular cell grid
	FormatWord  Format = "word"  // .docx / .doc, document text
	FormatPDF   Format = "pdf"   // best-effort text salvage
	FormatText  Format = "text"  // .txt / .csv, passthrough
	FormatHTML  Format = "html"  // .html / .htm, tag-stripped text
)

// Document is the result of loading a source file. Tabular formats fill
// Grid; every other format fills Text.
type Document struct {
	Path    string          `json:"path"`
	Format  Format          `json:"format"`
	Text    string          `json:"text,omitempty"`
	Grid    [][]string      `json:"grid,omitempty"`
	Salvage *SalvageQuality `json:"salvage,omitempty"` // PDF salvage metrics
}

// SalvageQuality captures metrics about a PDF text salvage pass.
type SalvageQuality struct {
	Pages          int     `json:"pages,omitempty"`
	Chars          int     `json:"chars"`
	PrintableRatio float64 `json:"printable_ratio"`
	RawScan        bool    `json:"raw_scan"` // true when the byte-scan fallback produced the text
}
