// Package extract turns fetched receipt documents into plain text.
package extract

import (
	"bytes"
	"context"
	"errors"
)

var ErrExtraction = errors.New("could not extract text from document")

type Extractor interface {
	Extract(ctx context.Context, doc []byte) (string, error)
}

var pdfMagic = []byte("%PDF-")

// Auto dispatches to PDF when the document carries the PDF signature and to Plain otherwise.
type Auto struct {
	PDF   Extractor
	Plain Extractor
}

func NewAuto() *Auto {
	return &Auto{PDF: PDF{}, Plain: Plain{}}
}

func (a *Auto) Extract(ctx context.Context, doc []byte) (string, error) {
	if bytes.HasPrefix(bytes.TrimLeft(doc, " \t\r\n"), pdfMagic) {
		return a.PDF.Extract(ctx, doc)
	}

	return a.Plain.Extract(ctx, doc)
}
