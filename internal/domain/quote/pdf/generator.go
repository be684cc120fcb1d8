package pdf

import "handwerk-hero/go_backend/internal/domain/quote"

const (
	ContentType = "application/pdf"
	Filename    = "Quote.pdf"
)

type Generator interface {
	Generate(doc quote.Document) ([]byte, error)
}
