package plugin

import "fmt"

// Category classifies the plugin for host browsers.
type Category int

// Plugin categories.
const (
	CategoryUnknown Category = iota
	CategoryEffect
	CategorySynth
	CategoryAnalysis
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryEffect:
		return "Effect"
	case CategorySynth:
		return "Synth"
	case CategoryAnalysis:
		return "Analysis"
	case CategoryUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Info is the descriptive metadata reported to the host. It has no effect
// on processing.
type Info struct {
	Name       string
	Vendor     string
	UniqueID   int32
	Version    int32
	Inputs     int
	Outputs    int
	Parameters int
	Category   Category
}

// Identity of the feedback delay.
const (
	DefaultName     = "Feedback Delay"
	DefaultVendor   = "algo-delay"
	DefaultUniqueID = 243723072
	DefaultVersion  = 1
)

func defaultInfo(channels int) Info {
	return Info{
		Name:       DefaultName,
		Vendor:     DefaultVendor,
		UniqueID:   DefaultUniqueID,
		Version:    DefaultVersion,
		Inputs:     channels,
		Outputs:    channels,
		Parameters: NumParams,
		Category:   CategoryEffect,
	}
}
