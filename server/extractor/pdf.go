package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF concatenates the plain text of every page in order. No
// separator is added between pages, but the text of a page usually starts
// with the newline that GetPlainText emits for its first line. Pages
// without a page object or text contribute nothing. A page whose content
// cannot be read fails the whole document.
func ExtractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	return concatPages(reader.NumPage(), func(i int) (string, error) {
		page := reader.Page(i)
		if page.V.IsNull() {
			return "", nil
		}
		return page.GetPlainText(nil)
	})
}

// concatPages joins pages 1..n.
func concatPages(n int, page func(int) (string, error)) (string, error) {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		text, err := page(i)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
