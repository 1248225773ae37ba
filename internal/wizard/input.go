package wizard

import (
	"html"
	"net/url"
	"strings"
	"sync"

	"github.com/felixbrock/logoassist/internal/domain"
	"github.com/microcosm-cc/bluemonday"
)

// Form field names shared by the web and terminal front ends.
const (
	FieldCompanyName     = "company_name"
	FieldSector          = "sector"
	FieldValues          = "values"
	FieldPreferredColors = "preferred_colors"
	FieldGraphicElements = "graphic_elements"
	FieldDesignStyle     = "design_style"
	FieldTargetAudience  = "target_audience"
	FieldSymbolism       = "symbolism"
	FieldInspirations    = "inspirations"
	FieldRefinements     = "refinements"
)

var stepFields = map[Step][]string{
	StepIdentity: {FieldCompanyName, FieldSector, FieldValues},
	StepStyle:    {FieldPreferredColors, FieldGraphicElements, FieldDesignStyle},
	StepDetails:  {FieldTargetAudience, FieldSymbolism, FieldInspirations},
	StepRefine:   {FieldRefinements},
}

const maxFieldLength = 2000

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Clean strips markup from free text and trims it.
func Clean(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})

	cleaned := strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(raw)))
	if r := []rune(cleaned); len(r) > maxFieldLength {
		cleaned = string(r[:maxFieldLength])
	}
	return cleaned
}

// applyInput copies the fields owned by step from values into form. Fields
// absent from values are left untouched, except the design style set which a
// submitted step 2 always replaces.
func applyInput(form *domain.FormData, step Step, values url.Values) {
	for _, field := range stepFields[step] {
		if field == FieldDesignStyle {
			form.DesignStyle = cleanTags(values[field])
			continue
		}

		raw, ok := values[field]
		if !ok || len(raw) == 0 {
			continue
		}
		value := Clean(raw[0])

		switch field {
		case FieldCompanyName:
			form.CompanyName = value
		case FieldSector:
			form.Sector = value
		case FieldValues:
			form.Values = value
		case FieldPreferredColors:
			form.PreferredColors = value
		case FieldGraphicElements:
			form.GraphicElements = value
		case FieldTargetAudience:
			form.TargetAudience = value
		case FieldSymbolism:
			form.Symbolism = value
		case FieldInspirations:
			form.Inspirations = value
		case FieldRefinements:
			form.Refinements = value
		}
	}
}

func cleanTags(raw []string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, r := range raw {
		tag := Clean(r)
		if tag == "" || seen[strings.ToLower(tag)] {
			continue
		}
		seen[strings.ToLower(tag)] = true
		tags = append(tags, tag)
	}
	return tags
}
