package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/birr/internal/encoding"
)

// Plain decodes text documents in whatever encoding they arrive in.
type Plain struct{}

func (Plain) Extract(_ context.Context, doc []byte) (string, error) {
	text, err := encoding.DecodeText(doc)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: document is empty", ErrExtraction)
	}

	return text, nil
}
