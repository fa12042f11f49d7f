package failure

type Severity int

// caller control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeverityRecoverable:
		return "recoverable"
	default:
		return "unknown"
	}
}

// ClassifiedError is the error contract shared by every package that can
// fail. Severity tells the caller whether the failure is worth another
// attempt; it never encodes domain meaning beyond that.
type ClassifiedError interface {
	error
	Severity() Severity
}
