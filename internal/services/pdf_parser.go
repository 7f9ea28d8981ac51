package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDFText reads every page in order. Each page contributes its plain
// text and a newline; a page that is missing or fails to decode contributes
// only the newline so page boundaries stay visible to the reader.
func extractPDFText(filePath string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if !page.V.IsNull() {
			pageText, err := page.GetPlainText(nil)
			if err != nil {
				log.Printf("⚠️ Skipping unreadable PDF page %d: %v", pageIndex, err)
			} else {
				textBuilder.WriteString(pageText)
			}
		}
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}
