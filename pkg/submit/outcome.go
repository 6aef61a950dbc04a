package submit

import "fmt"

// OutcomeKind tags which branch a submission ended in.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota + 1
	OutcomeAppError
	OutcomeTransportError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeAppError:
		return "app_error"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of one submission.
//
// Result holds the raw JSON of the "result" member for OutcomeOK (nil when the
// member was absent). Message holds the server supplied text for
// OutcomeAppError. Err holds the cause for OutcomeTransportError. Display is
// the text content the result element ended up with.
type Outcome struct {
	Kind      OutcomeKind
	RequestID string
	Result    []byte
	Message   string
	Err       error
	Display   string
}

// OK reports whether the submission produced a result.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeOK
}
