package docload

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// extractWorkbookGrid parses a .xlsx file by reading the shared-string table
// and the first worksheet from the ZIP archive, yielding a row/column cell
// grid. Row 0 carries the header exactly as stored; interpretation is the
// extractor's concern.
func extractWorkbookGrid(path string) ([][]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var shared []string
	var sheetNames []string
	files := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		files[f.Name] = f
		if strings.HasPrefix(f.Name, "xl/worksheets/") && strings.HasSuffix(f.Name, ".xml") {
			sheetNames = append(sheetNames, f.Name)
		}
	}
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("no worksheet found in archive")
	}
	sort.Strings(sheetNames) // sheet1.xml before sheet2.xml

	if ss, ok := files["xl/sharedStrings.xml"]; ok {
		shared, err = parseSharedStrings(ss)
		if err != nil {
			return nil, fmt.Errorf("shared strings: %w", err)
		}
	}

	return parseWorksheet(files[sheetNames[0]], shared)
}

// parseSharedStrings reads xl/sharedStrings.xml: one entry per <si>, with
// text possibly split across rich-formatting runs.
func parseSharedStrings(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var entries []string
	var current strings.Builder
	var inEntry, inText bool

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "si":
				inEntry = true
				current.Reset()
			case "t":
				inText = inEntry
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "si":
				inEntry = false
				entries = append(entries, current.String())
			}
		}
	}
	return entries, nil
}

// worksheet XML shapes; only the value-bearing parts are mapped.
type sheetXML struct {
	Rows []rowXML `xml:"sheetData>row"`
}

type rowXML struct {
	Cells []cellXML `xml:"c"`
}

type cellXML struct {
	Ref    string    `xml:"r,attr"`
	Type   string    `xml:"t,attr"`
	Value  string    `xml:"v"`
	Inline inlineXML `xml:"is"`
}

type inlineXML struct {
	Text string `xml:"t"`
}

// parseWorksheet maps sheet XML onto a dense [][]string grid. Missing cells
// become empty strings so column positions stay fixed.
func parseWorksheet(f *zip.File, shared []string) ([][]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	var sheet sheetXML
	if err := xml.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("worksheet xml: %w", err)
	}

	var grid [][]string
	for _, row := range sheet.Rows {
		var cells []string
		for _, c := range row.Cells {
			col := columnIndex(c.Ref)
			if col < 0 {
				col = len(cells)
			}
			for len(cells) <= col {
				cells = append(cells, "")
			}
			cells[col] = cellValue(c, shared)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

func cellValue(c cellXML, shared []string) string {
	switch c.Type {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "inlineStr":
		return c.Inline.Text
	default:
		return c.Value
	}
}

// columnIndex converts a cell reference like "BC12" to a 0-based column
// index. Returns -1 when the reference has no column letters.
func columnIndex(ref string) int {
	col := 0
	seen := false
	for _, ch := range ref {
		if ch >= 'A' && ch <= 'Z' {
			col = col*26 + int(ch-'A') + 1
			seen = true
			continue
		}
		break
	}
	if !seen {
		return -1
	}
	return col - 1
}
