package vision

const (
	// NotConfigured is returned verbatim when no API key is set.
	NotConfigured = "Error: Gemini API key not configured"
	// FailurePrefix precedes the provider error text.
	FailurePrefix = "Error al analizar la imagen: "
)

type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeUnavailable
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Outcome is Ok(text) or ProviderUnavailable(reason).
type Outcome struct {
	Kind   OutcomeKind
	text   string
	reason string
}

func Ok(text string) Outcome { return Outcome{Kind: OutcomeOK, text: text} }

func Unavailable(reason string) Outcome { return Outcome{Kind: OutcomeUnavailable, reason: reason} }

func (o Outcome) IsOK() bool { return o.Kind == OutcomeOK }

func (o Outcome) Reason() string { return o.reason }

// Text is what the user gets to read: the model output, or the failure reason.
func (o Outcome) Text() string {
	if o.Kind == OutcomeOK {
		return o.text
	}
	return o.reason
}
