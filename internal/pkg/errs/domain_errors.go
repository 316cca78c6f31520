package errs

// Caller-facing error kinds. Concrete errors are marked with one of these
// so the HTTP layer can map them without inspecting messages.
var (
	ErrNotFound           = New("not found")
	ErrForbidden          = New("forbidden")
	ErrInvalidInput       = New("invalid input")
	ErrConflict           = New("conflict")
	ErrPreconditionFailed = New("precondition failed")
	ErrUnauthenticated    = New("unauthenticated")
)

type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindForbidden          Kind = "forbidden"
	KindInvalidInput       Kind = "invalid_input"
	KindConflict           Kind = "conflict"
	KindPreconditionFailed Kind = "precondition_failed"
	KindUnauthenticated    Kind = "unauthenticated"
	KindInternal           Kind = "internal"
)

var kindMarkers = []struct {
	marker error
	kind   Kind
}{
	{ErrNotFound, KindNotFound},
	{ErrForbidden, KindForbidden},
	{ErrInvalidInput, KindInvalidInput},
	{ErrConflict, KindConflict},
	{ErrPreconditionFailed, KindPreconditionFailed},
	{ErrUnauthenticated, KindUnauthenticated},
}

// NewKind creates a sentinel error already classified under kind.
func NewKind(msg string, kind error) error {
	return Mark(New(msg), kind)
}

func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, km := range kindMarkers {
		if Is(err, km.marker) {
			return km.kind
		}
	}
	return KindInternal
}
