package domain

type Color struct {
	Name string `json:"name" yaml:"name"`
	Hex  string `json:"hex" yaml:"hex"`
}

type Concept struct {
	Id          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	PaletteName string  `json:"palette_name" yaml:"palette_name"`
	Palette     []Color `json:"palette" yaml:"palette"`
	Typography  string  `json:"typography" yaml:"typography"`
	Layout      string  `json:"layout" yaml:"layout"`
	StyleTag    string  `json:"style_tag" yaml:"style_tag"`
	Rationale   string  `json:"rationale" yaml:"rationale"`
}

// FormData is everything one wizard session has collected. Concepts is derived
// and only ever written by the wizard controller.
type FormData struct {
	CompanyName     string    `json:"company_name" yaml:"company_name"`
	Sector          string    `json:"sector" yaml:"sector"`
	Values          string    `json:"values" yaml:"values"`
	PreferredColors string    `json:"preferred_colors" yaml:"preferred_colors"`
	GraphicElements string    `json:"graphic_elements" yaml:"graphic_elements"`
	DesignStyle     []string  `json:"design_style" yaml:"design_style"`
	TargetAudience  string    `json:"target_audience" yaml:"target_audience"`
	Symbolism       string    `json:"symbolism" yaml:"symbolism"`
	Inspirations    string    `json:"inspirations" yaml:"inspirations"`
	Concepts        []Concept `json:"concepts" yaml:"concepts"`
	Refinements     string    `json:"refinements" yaml:"refinements"`
}

type Image struct {
	MimeType string
	Data     []byte
	Seed     int64
}

type PreviewState string

const (
	PreviewIdle      PreviewState = "idle"
	PreviewPending   PreviewState = "pending"
	PreviewReady     PreviewState = "ready"
	PreviewFailed    PreviewState = "failed"
	PreviewCancelled PreviewState = "cancelled"
)

// Preview is the render outcome for one concept within a session.
type Preview struct {
	ConceptId string
	State     PreviewState
	Image     *Image
	Err       error
}
