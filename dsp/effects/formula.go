package effects

import "fmt"

// Formula selects how the live input and the delayed sample are combined
// into the value written back into the delay line.
type Formula int

const (
	// FeedbackMixed stores (input + delayed) * feedback. Each repeat of an
	// impulse is scaled by feedback relative to the previous one.
	FeedbackMixed Formula = iota

	// FeedbackInput stores input * feedback. Only a single echo is
	// produced; the loop does not recirculate.
	FeedbackInput

	// FeedbackOffsetProduct stores feedback + delayed * input. The feedback
	// value acts as a constant offset, so silence does not stay silent.
	FeedbackOffsetProduct
)

// String returns the formula name.
func (f Formula) String() string {
	switch f {
	case FeedbackMixed:
		return "mixed"
	case FeedbackInput:
		return "input"
	case FeedbackOffsetProduct:
		return "offset-product"
	default:
		return fmt.Sprintf("Formula(%d)", int(f))
	}
}

// ParseFormula returns the Formula whose String matches name.
func ParseFormula(name string) (Formula, error) {
	for _, f := range []Formula{FeedbackMixed, FeedbackInput, FeedbackOffsetProduct} {
		if f.String() == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown feedback formula: %q", name)
}

func (f Formula) valid() bool {
	return f >= FeedbackMixed && f <= FeedbackOffsetProduct
}

// feed computes the value written into the delay line.
func (f Formula) feed(input, delayed, feedback float64) float64 {
	switch f {
	case FeedbackInput:
		return input * feedback
	case FeedbackOffsetProduct:
		return feedback + delayed*input
	default:
		return (input + delayed) * feedback
	}
}
