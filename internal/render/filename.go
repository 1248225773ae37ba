package render

import (
	"fmt"

	"github.com/gosimple/slug"
)

// FileName names the n-th (1-based) preview of a company, e.g. "padaria-sao-jose-2.png".
func FileName(company string, n int, mimeType string) string {
	base := slug.MakeLang(company, "pt")
	if base == "" {
		base = "logo"
	}

	return fmt.Sprintf("%s-%d%s", base, n, extension(mimeType))
}

func extension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
