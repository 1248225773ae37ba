package wizard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/felixbrock/logoassist/internal/concept"
	"github.com/felixbrock/logoassist/internal/domain"
)

// ValidationError maps form field names to messages for one step.
type ValidationError struct {
	Step   Step
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return fmt.Sprintf("step %d invalid: %s", e.Step, strings.Join(parts, "; "))
}

// ValidateStep checks the fields a step owns before the controller is asked to
// advance.
func ValidateStep(step Step, form domain.FormData) error {
	fields := map[string]string{}

	switch step {
	case StepIdentity:
		if strings.TrimSpace(form.CompanyName) == "" {
			fields[FieldCompanyName] = "Informe o nome da empresa."
		}
		if strings.TrimSpace(form.Sector) == "" {
			fields[FieldSector] = "Informe o setor de atuação."
		}
	case StepStyle:
		for _, tag := range form.DesignStyle {
			if !concept.IsStyleTag(tag) {
				fields[FieldDesignStyle] = fmt.Sprintf("Estilo desconhecido: %s.", tag)
				break
			}
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Step: step, Fields: fields}
}
