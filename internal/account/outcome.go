package account

// OutcomeKind tags the result of a balance request.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeConfigFault
	OutcomeUnauthorized
	OutcomeNotFound
	OutcomeFault
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeConfigFault:
		return "config_fault"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Outcome carries Balance for OutcomeOK and Err for OutcomeFault.
type Outcome struct {
	Kind    OutcomeKind
	Balance Balance
	Err     error
}
