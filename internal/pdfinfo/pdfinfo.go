// Package pdfinfo reads the page structure of attached PDF content.
package pdfinfo

import (
	"bytes"
	"errors"
	"fmt"

	pdf "github.com/ledongthuc/pdf"
)

const MimeType = "application/pdf"

var ErrNotPDF = errors.New("content is not a pdf")

type Info struct {
	Pages   int
	TextLen int
}

// Inspect counts the pages of data and the length of its plain text. Pages
// whose text cannot be extracted still count.
func Inspect(data []byte) (Info, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return Info{}, ErrNotPDF
	}
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("new pdf reader: %w", err)
	}

	info := Info{Pages: doc.NumPage()}
	for n := 1; n <= info.Pages; n++ {
		p := doc.Page(n)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		info.TextLen += len(text)
	}
	return info, nil
}

// IsPDF reports whether contentType names a PDF.
func IsPDF(contentType string) bool {
	return contentType == MimeType
}
