package wizard

import "fmt"

// Step is one of the five wizard screens.
type Step int

const (
	StepIdentity Step = iota + 1
	StepStyle
	StepDetails
	StepConcepts
	StepRefine
)

const (
	FirstStep = StepIdentity
	LastStep  = StepRefine
	// Leaving this step generates the concepts and crosses the credential gate.
	handOffStep = StepDetails
	previewStep = StepConcepts
)

func (s Step) Title() string {
	switch s {
	case StepIdentity:
		return "Identidade"
	case StepStyle:
		return "Estilo"
	case StepDetails:
		return "Detalhes"
	case StepConcepts:
		return "Conceitos"
	case StepRefine:
		return "Refinamento"
	default:
		return fmt.Sprintf("Etapa %d", int(s))
	}
}

func Steps() []Step {
	return []Step{StepIdentity, StepStyle, StepDetails, StepConcepts, StepRefine}
}

// Gate tracks the credential prompt.
type Gate int

const (
	GateOpen Gate = iota
	// The 3 -> 4 transition is parked until a credential is set or skipped.
	GateSuspended
	// The user asked to configure rendering from the preview step.
	GatePrompted
)

func (g Gate) String() string {
	switch g {
	case GateOpen:
		return "open"
	case GateSuspended:
		return "suspended"
	case GatePrompted:
		return "prompted"
	default:
		return "unknown"
	}
}

type State struct {
	Step Step
	Gate Gate
}

func (s State) AwaitingCredential() bool {
	return s.Gate != GateOpen
}
