package studio

import "sync"

// CheckoutStep is one stage of the checkout wizard.
type CheckoutStep int

const (
	StepIdentification CheckoutStep = iota + 1
	StepShipping
	StepPayment
)

// FirstCheckoutStep and LastCheckoutStep bound the wizard.
const (
	FirstCheckoutStep = StepIdentification
	LastCheckoutStep  = StepPayment
)

func (s CheckoutStep) String() string {
	switch s {
	case StepIdentification:
		return "identification"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	}
	return "unknown"
}

// Label returns the storefront heading for the step.
func (s CheckoutStep) Label() string {
	switch s {
	case StepIdentification:
		return "Identificación"
	case StepShipping:
		return "Envío"
	case StepPayment:
		return "Pago"
	}
	return ""
}

// CheckoutSteps lists the wizard stages in order.
var CheckoutSteps = []CheckoutStep{StepIdentification, StepShipping, StepPayment}

// CheckoutFlow tracks the active step of one checkout block. Steps only move forward.
type CheckoutFlow struct {
	mu   sync.Mutex
	step CheckoutStep
}

// NewCheckoutFlow starts at identification.
func NewCheckoutFlow() *CheckoutFlow {
	return &CheckoutFlow{step: FirstCheckoutStep}
}

// Step returns the active step.
func (f *CheckoutFlow) Step() CheckoutStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == 0 {
		return FirstCheckoutStep
	}
	return f.step
}

// Continue advances one step, stopping at payment, and returns the new step.
func (f *CheckoutFlow) Continue() CheckoutStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == 0 {
		f.step = FirstCheckoutStep
	}
	if f.step < LastCheckoutStep {
		f.step++
	}
	return f.step
}

// ClampCheckoutStep bounds s to the wizard stages.
func ClampCheckoutStep(s CheckoutStep) CheckoutStep {
	switch {
	case s < FirstCheckoutStep:
		return FirstCheckoutStep
	case s > LastCheckoutStep:
		return LastCheckoutStep
	}
	return s
}

// CheckoutStates resolves the flow for a checkout node during rendering.
type CheckoutStates interface {
	CheckoutStep(nodeID string) CheckoutStep
}

// CheckoutAt reports the same step for every checkout block. Storefront visitors carry their
// step in the request instead of server state.
type CheckoutAt CheckoutStep

// CheckoutStep implements CheckoutStates.
func (c CheckoutAt) CheckoutStep(string) CheckoutStep {
	return ClampCheckoutStep(CheckoutStep(c))
}

// CheckoutRegistry keeps one flow per checkout node.
type CheckoutRegistry struct {
	mu    sync.Mutex
	flows map[string]*CheckoutFlow
}

// NewCheckoutRegistry returns an empty registry.
func NewCheckoutRegistry() *CheckoutRegistry {
	return &CheckoutRegistry{flows: map[string]*CheckoutFlow{}}
}

// Flow returns the flow for nodeID, creating it on first use.
func (r *CheckoutRegistry) Flow(nodeID string) *CheckoutFlow {
	r.mu.Lock()
	defer r.mu.Unlock()
	flow, ok := r.flows[nodeID]
	if !ok {
		flow = NewCheckoutFlow()
		r.flows[nodeID] = flow
	}
	return flow
}

// CheckoutStep implements CheckoutStates.
func (r *CheckoutRegistry) CheckoutStep(nodeID string) CheckoutStep {
	if r == nil {
		return FirstCheckoutStep
	}
	r.mu.Lock()
	flow, ok := r.flows[nodeID]
	r.mu.Unlock()
	if !ok {
		return FirstCheckoutStep
	}
	return flow.Step()
}

// Reset forgets every flow.
func (r *CheckoutRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows = map[string]*CheckoutFlow{}
}
