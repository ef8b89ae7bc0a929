package docload

import (
	"os"
	"strings"
)

// readText loads a plain text or CSV file verbatim, normalizing line endings.
// Line structure is the question scanner's unit of work, so nothing else is
// touched.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text, nil
}
