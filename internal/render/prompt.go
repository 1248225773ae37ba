package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/felixbrock/logoassist/internal/domain"
)

type Prompt struct {
	Text     string
	Negative string
}

const negativePrompt = "photo, photorealistic, 3d render, mockup, watermark, blurry, cluttered background, misspelled text"

func BuildPrompt(concept domain.Concept) Prompt {
	colors := make([]string, len(concept.Palette))
	for i, c := range concept.Palette {
		colors[i] = fmt.Sprintf("%s %s", c.Name, c.Hex)
	}

	text := fmt.Sprintf(
		"Professional vector logo design, %s style, flat, centered on a plain white background. "+
			"Color palette: %s. Typography: %s. Layout: %s. Brief: %s",
		strings.ToLower(concept.StyleTag),
		strings.Join(colors, ", "),
		concept.Typography,
		concept.Layout,
		concept.Rationale)

	return Prompt{Text: text, Negative: negativePrompt}
}

func isKnown(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized) ||
		errors.Is(err, domain.ErrRateLimited) ||
		errors.Is(err, domain.ErrUnavailable)
}
