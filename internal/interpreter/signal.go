package interpreter

type SignalKind int

const (
	Normal SignalKind = iota
	Return
	Break
	Continue
)

func (k SignalKind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Return:
		return "return"
	case Break:
		return "break"
	case Continue:
		return "continue"
	}
	return "unknown"
}

// Signal is what executing a statement yields. Value is meaningful only for
// Return with HasValue set.
type Signal struct {
	Kind SignalKind

	Value    Value
	HasValue bool
}

var normal = Signal{Kind: Normal}
