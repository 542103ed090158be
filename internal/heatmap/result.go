package heatmap

import "fmt"

// Status classifies the outcome of a boundary-checked operation.
type Status int

// Operation outcomes. Rejections leave state unchanged.
const (
	Accepted Status = iota
	RejectedAmount
	RejectedOutOfBounds
	RejectedIndex
	RejectedCategory
	RejectedFinalized
)

func (s Status) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case RejectedAmount:
		return "invalid_amount"
	case RejectedOutOfBounds:
		return "out_of_bounds"
	case RejectedIndex:
		return "invalid_index"
	case RejectedCategory:
		return "unknown_category"
	case RejectedFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is returned by every operation that can reject its input.
type Result struct {
	Status Status
	Reason string
}

// OK reports whether the operation was applied.
func (r Result) OK() bool { return r.Status == Accepted }

func accepted() Result { return Result{Status: Accepted} }

func rejected(s Status, format string, args ...any) Result {
	return Result{Status: s, Reason: fmt.Sprintf(format, args...)}
}
