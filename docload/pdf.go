package docload

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// salvagePDF recovers whatever text it can from a PDF. This is deliberately
// not layout parsing: the primary pass lets pdfcpu decode the cross-reference
// table and hands back raw page content streams, from which string operands
// of the text-show operators are scraped. When pdfcpu cannot read the file at
// all, a raw byte scan of the whole file is the fallback. A salvage below
// minChars usable characters is an error.
func salvagePDF(path string, minChars int) (string, *SalvageQuality, error) {
	text, pages, err := salvageContentStreams(path)
	quality := &SalvageQuality{Pages: pages}

	if err != nil || text == "" {
		raw, rawErr := salvageRawBytes(path)
		if rawErr != nil {
			return "", nil, rawErr
		}
		text = raw
		quality.RawScan = true
	}

	quality.Chars = len([]rune(text))
	quality.PrintableRatio = printableRatio(text)

	if quality.Chars < minChars {
		return "", quality, fmt.Errorf(
			"could not salvage usable text from PDF (%d chars); convert the file to Word or text and re-import",
			quality.Chars)
	}
	return text, quality, nil
}

// salvageContentStreams extracts text via pdfcpu page content streams.
func salvageContentStreams(path string) (string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return "", 0, fmt.Errorf("pdfcpu read: %w", err)
	}

	var sb strings.Builder
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageText := salvagePageText(ctx, pageNr)
		if pageText == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(pageText)
	}
	return sb.String(), ctx.PageCount, nil
}

func salvagePageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return scrapeTextOperators(data)
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// scrapeTextOperators walks a content stream line by line and collects the
// string operands of Tj, TJ and ' (show text), using the positioning
// operators Td/TD/T* as whitespace hints.
func scrapeTextOperators(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodePDFString(m[1]))
			}

		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				if text := decodePDFString(m[1]); text != "" {
					sb.WriteByte('\n')
					sb.WriteString(text)
				}
			}

		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}

		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return cleanSalvagedText(sb.String(), true)
}

// decodePDFString handles basic PDF escape sequences.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			// Octal escape (e.g. \040 for space).
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

// Raw byte-scan fallback: strip stream bodies, dictionaries and name tokens,
// then keep whatever printable text remains.
var (
	pdfStreamRe = regexp.MustCompile(`(?s)stream.*?endstream`)
	pdfDictRe   = regexp.MustCompile(`(?s)<<.*?>>`)
	pdfNameRe   = regexp.MustCompile(`/[A-Za-z]+`)
)

func salvageRawBytes(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	text := string(data)
	text = pdfStreamRe.ReplaceAllString(text, "")
	text = pdfDictRe.ReplaceAllString(text, "")
	text = pdfNameRe.ReplaceAllString(text, " ")
	return cleanSalvagedText(text, false), nil
}

// cleanSalvagedText drops non-printable runes and collapses runs of
// whitespace. keepLines preserves newlines so the question scanner still
// sees line structure; the raw byte scan cannot tell layout newlines from
// stream noise, so it collapses everything to single spaces.
func cleanSalvagedText(text string, keepLines bool) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		if r == '\n' && keepLines {
			sb.WriteByte('\n')
			prevSpace = true
			continue
		}
		if unicode.IsSpace(r) {
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		if unicode.IsPrint(r) && r != unicode.ReplacementChar {
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}

// printableRatio returns the ratio of printable characters in text.
func printableRatio(text string) float64 {
	if len(text) == 0 {
		return 1.0
	}
	total, printable := 0, 0
	for _, r := range text {
		total++
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	return float64(printable) / float64(total)
}
