package services

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// extractDOCXText returns the body paragraphs of a .docx file, each followed by a newline.
func extractDOCXText(filePath string) (string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer r.Close()

	return paragraphsFromDocumentXML(r.Editable().GetContent())
}

// paragraphsFromDocumentXML walks word/document.xml. Runs inside a w:p are
// concatenated, w:tab becomes a tab and w:br a line break.
func paragraphsFromDocumentXML(content string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var (
		out     strings.Builder
		current strings.Builder
		inText  bool
		inPara  bool
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse DOCX body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				inText = true
			case "tab":
				current.WriteString("\t")
			case "br", "cr":
				current.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inPara {
					out.WriteString(current.String())
					out.WriteString("\n")
				}
				inPara = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return out.String(), nil
}

// extractDOCText shells out to antiword for legacy Word files.
func extractDOCText(ctx context.Context, antiwordPath, filePath string) (string, error) {
	cmd := exec.CommandContext(ctx, antiwordPath, filePath)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("antiword failed: %s: %w", strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return "", fmt.Errorf("DOC extraction requires antiword: %w", err)
	}

	return string(output), nil
}
