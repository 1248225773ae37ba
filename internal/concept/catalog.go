package concept

import "github.com/felixbrock/logoassist/internal/domain"

type palette struct {
	Name     string
	Keywords []string
	Colors   []domain.Color
}

type style struct {
	Tag        string
	Typography string
	Layout     string
}

var (
	blue = palette{
		Name:     "Azul Confiança",
		Keywords: []string{"azul", "blue", "marinho", "navy", "ciano"},
		Colors:   []domain.Color{{Name: "Azul marinho", Hex: "#1E3A8A"}, {Name: "Azul", Hex: "#3B82F6"}, {Name: "Azul gelo", Hex: "#E0F2FE"}},
	}
	green = palette{
		Name:     "Verde Natural",
		Keywords: []string{"verde", "green", "oliva", "menta"},
		Colors:   []domain.Color{{Name: "Verde floresta", Hex: "#166534"}, {Name: "Verde", Hex: "#22C55E"}, {Name: "Verde claro", Hex: "#DCFCE7"}},
	}
	red = palette{
		Name:     "Vermelho Energia",
		Keywords: []string{"vermelho", "red", "bordo", "vinho"},
		Colors:   []domain.Color{{Name: "Vinho", Hex: "#991B1B"}, {Name: "Vermelho", Hex: "#EF4444"}, {Name: "Rosado", Hex: "#FEE2E2"}},
	}
	purple = palette{
		Name:     "Roxo Criativo",
		Keywords: []string{"roxo", "purple", "violeta", "lilas", "lavanda"},
		Colors:   []domain.Color{{Name: "Roxo profundo", Hex: "#581C87"}, {Name: "Violeta", Hex: "#A855F7"}, {Name: "Lavanda", Hex: "#F3E8FF"}},
	}
	orange = palette{
		Name:     "Laranja Vibrante",
		Keywords: []string{"laranja", "orange", "coral", "terracota"},
		Colors:   []domain.Color{{Name: "Terracota", Hex: "#9A3412"}, {Name: "Laranja", Hex: "#F97316"}, {Name: "Pêssego", Hex: "#FFEDD5"}},
	}
	yellow = palette{
		Name:     "Amarelo Solar",
		Keywords: []string{"amarelo", "yellow", "dourado", "gold", "ouro"},
		Colors:   []domain.Color{{Name: "Mostarda", Hex: "#854D0E"}, {Name: "Amarelo", Hex: "#EAB308"}, {Name: "Creme", Hex: "#FEF9C3"}},
	}
	pink = palette{
		Name:     "Rosa Suave",
		Keywords: []string{"rosa", "pink", "magenta", "fucsia"},
		Colors:   []domain.Color{{Name: "Framboesa", Hex: "#9D174D"}, {Name: "Rosa", Hex: "#EC4899"}, {Name: "Rosa claro", Hex: "#FCE7F3"}},
	}
	mono = palette{
		Name:     "Monocromático",
		Keywords: []string{"preto", "black", "branco", "white", "cinza", "gray", "grey"},
		Colors:   []domain.Color{{Name: "Grafite", Hex: "#111827"}, {Name: "Cinza", Hex: "#6B7280"}, {Name: "Gelo", Hex: "#F9FAFB"}},
	}
)

// Keyword lookup runs in this order.
var colorPalettes = []palette{blue, green, red, purple, orange, yellow, pink, mono}

var sectorPalettes = []struct {
	Sector   string
	Palettes []palette
}{
	{"Tecnologia", []palette{blue, purple}},
	{"Saúde", []palette{green, blue}},
	{"Educação", []palette{yellow, blue}},
	{"E-commerce", []palette{orange, pink}},
	{"Consultoria", []palette{mono, blue}},
	{"Sustentabilidade", []palette{green, yellow}},
	{"Moda", []palette{pink, mono}},
	{"Alimentação", []palette{red, orange}},
}

// Holds at least Count entries so every slot gets a palette.
var fallbackPalettes = []palette{purple, blue, mono}

var catalog = []style{
	{"Minimalista", "Sans-serif geométrica leve", "símbolo isolado com amplo espaço negativo"},
	{"Minimalista", "Sans-serif condensada", "monograma centralizado"},
	{"Moderno", "Sans-serif geométrica em negrito", "símbolo à esquerda com logotipo horizontal"},
	{"Moderno", "Grotesca contemporânea", "emblema abstrato empilhado"},
	{"Vintage", "Serifada clássica com ornamentos", "selo circular com texto em arco"},
	{"Vintage", "Slab serif envelhecida", "brasão com faixa"},
	{"Divertido", "Display arredondada", "mascote com logotipo ondulado"},
	{"Divertido", "Manuscrita casual", "letras sobrepostas coloridas"},
	{"Elegante", "Serifada de alto contraste", "logotipo centralizado com monograma"},
	{"Elegante", "Script caligráfica", "assinatura horizontal com filete fino"},
}

// StyleTags lists the selectable design style tags in catalog order.
func StyleTags() []string {
	var tags []string
	seen := map[string]bool{}
	for _, s := range catalog {
		if !seen[s.Tag] {
			seen[s.Tag] = true
			tags = append(tags, s.Tag)
		}
	}
	return tags
}

// Sectors lists the sectors that have a dedicated palette mapping.
func Sectors() []string {
	sectors := make([]string, len(sectorPalettes))
	for i, s := range sectorPalettes {
		sectors[i] = s.Sector
	}
	return sectors
}

func IsStyleTag(tag string) bool {
	key := fold(tag)
	for _, s := range catalog {
		if fold(s.Tag) == key {
			return true
		}
	}
	return false
}
