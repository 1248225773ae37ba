// Package concept turns the answers collected by the wizard into logo concepts.
// Generation is table driven and deterministic: the same form always yields the
// same concepts, ids included.
package concept

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/felixbrock/logoassist/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Count is the number of concepts produced by every Generate call.
const Count = 3

var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://logoassist.app/concepts"))

func Generate(form domain.FormData) []domain.Concept {
	palettes := paletteCandidates(form.PreferredColors, form.Sector)
	styles := styleCandidates(form.DesignStyle)
	fingerprint := fingerprint(form)

	concepts := make([]domain.Concept, Count)
	for i := 0; i < Count; i++ {
		p := palettes[i%len(palettes)]
		s := styles[i%len(styles)]

		colors := make([]domain.Color, len(p.Colors))
		copy(colors, p.Colors)

		concepts[i] = domain.Concept{
			Id:          uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%s\x1f%d", fingerprint, i))).String(),
			Name:        fmt.Sprintf("Conceito %d · %s", i+1, s.Tag),
			PaletteName: p.Name,
			Palette:     colors,
			Typography:  s.Typography,
			Layout:      s.Layout,
			StyleTag:    s.Tag,
			Rationale:   rationale(form, p, s),
		}
	}

	return concepts
}

// Validate reports a generation defect: wrong cardinality, an empty palette or
// a repeated id.
func Validate(concepts []domain.Concept) error {
	if len(concepts) != Count {
		return fmt.Errorf("%w: expected %d concepts, got %d", domain.ErrGenerationInvariant, Count, len(concepts))
	}

	ids := make(map[string]bool, len(concepts))
	for i, c := range concepts {
		if len(c.Palette) == 0 {
			return fmt.Errorf("%w: concept %d has an empty palette", domain.ErrGenerationInvariant, i)
		}
		if c.Id == "" || ids[c.Id] {
			return fmt.Errorf("%w: concept %d has a missing or duplicate id", domain.ErrGenerationInvariant, i)
		}
		ids[c.Id] = true
	}

	return nil
}

var errNoPalette = errors.New("no palette candidates")

func paletteCandidates(preferredColors string, sector string) []palette {
	var candidates []palette
	seen := map[string]bool{}
	add := func(p palette) {
		if !seen[p.Name] {
			seen[p.Name] = true
			candidates = append(candidates, p)
		}
	}

	words := tokens(preferredColors)
	for _, p := range colorPalettes {
		if matchesAny(words, p.Keywords) {
			add(p)
		}
	}

	sectorKey := fold(sector)
	for _, s := range sectorPalettes {
		if fold(s.Sector) == sectorKey {
			for _, p := range s.Palettes {
				add(p)
			}
		}
	}

	for _, p := range fallbackPalettes {
		add(p)
	}

	if len(candidates) < Count {
		// fallbackPalettes is too short or collides with earlier picks.
		panic(errNoPalette)
	}

	return candidates
}

func styleCandidates(tags []string) []style {
	selected := map[string]bool{}
	for _, t := range tags {
		selected[fold(t)] = true
	}

	var filtered []style
	for _, s := range catalog {
		if selected[fold(s.Tag)] {
			filtered = append(filtered, s)
		}
	}

	if len(filtered) == 0 {
		return catalog[:1]
	}

	return filtered
}

func rationale(form domain.FormData, p palette, s style) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s, do setor de %s, ganha um logo de estilo %s: paleta %s (%s), tipografia %s e %s.",
		orDefault(form.CompanyName, "A marca"),
		orDefault(form.Sector, "atuação livre"),
		strings.ToLower(s.Tag),
		p.Name,
		colorNames(p.Colors),
		strings.ToLower(s.Typography),
		s.Layout)

	if v := strings.TrimSpace(form.Values); v != "" {
		fmt.Fprintf(&b, " A proposta traduz os valores da marca: %s.", strings.TrimSuffix(v, "."))
	}
	if a := strings.TrimSpace(form.TargetAudience); a != "" {
		fmt.Fprintf(&b, " Pensado para %s.", strings.TrimSuffix(a, "."))
	}
	if sym := strings.TrimSpace(form.Symbolism); sym != "" {
		fmt.Fprintf(&b, " Simbolismo: %s.", strings.TrimSuffix(sym, "."))
	}

	return b.String()
}

func colorNames(colors []domain.Color) string {
	names := make([]string, len(colors))
	for i, c := range colors {
		names[i] = strings.ToLower(c.Name)
	}
	return strings.Join(names, ", ")
}

func fingerprint(form domain.FormData) string {
	tags := make([]string, len(form.DesignStyle))
	for i, t := range form.DesignStyle {
		tags[i] = fold(t)
	}

	return strings.Join([]string{
		strings.TrimSpace(form.CompanyName),
		fold(form.Sector),
		strings.TrimSpace(form.Values),
		fold(form.PreferredColors),
		strings.TrimSpace(form.GraphicElements),
		strings.Join(tags, ","),
		strings.TrimSpace(form.TargetAudience),
		strings.TrimSpace(form.Symbolism),
		strings.TrimSpace(form.Inspirations),
	}, "\x1f")
}

func matchesAny(words []string, keywords []string) bool {
	for _, w := range words {
		for _, k := range keywords {
			if w == k {
				return true
			}
		}
	}
	return false
}

func tokens(text string) []string {
	return strings.FieldsFunc(fold(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// fold lowercases and strips accents so "Saúde" matches "saude".
func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func orDefault(s string, def string) string {
	if t := strings.TrimSpace(s); t != "" {
		return t
	}
	return def
}
