// Package office converts word-processing documents (.docx, .odt) into
// plain text. Conversion is fully offline: both formats are ZIP archives
// holding an XML body, walked with the stdlib token decoder.
package office

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"NewsIntake/internal/ports"
)

// Converter extracts paragraph text from office documents held in memory.
type Converter struct{}

var _ ports.OfficeConverter = (*Converter)(nil)

// NewConverter returns the local converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert detects the archive layout and returns the document text,
// paragraphs separated by blank lines.
func (c *Converter) Convert(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}

	if f := findFile(r, "word/document.xml"); f != nil {
		return extractParagraphs(f, "p")
	}
	if f := findFile(r, "content.xml"); f != nil {
		return extractParagraphs(f, "p")
	}

	return "", fmt.Errorf("no document body found in archive")
}

func findFile(r *zip.Reader, name string) *zip.File {
	for _, f := range r.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// extractParagraphs walks the XML token stream and collects character
// data per paragraph element. Styles and runs are ignored; only text
// content survives.
func extractParagraphs(f *zip.File, paragraphTag string) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)

	var paragraphs []string
	var current strings.Builder
	depth := 0

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", f.Name, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == paragraphTag {
				depth++
				if depth == 1 {
					current.Reset()
				}
			}
		case xml.CharData:
			if depth > 0 {
				current.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == paragraphTag && depth > 0 {
				depth--
				if depth == 0 {
					if text := strings.TrimSpace(current.String()); text != "" {
						paragraphs = append(paragraphs, text)
					}
				}
			}
		}
	}

	return strings.Join(paragraphs, "\n\n"), nil
}
