// Command delayinfo prints the configuration and echo pattern of the
// feedback delay for a set of control values.
//
// Usage:
//
//	delayinfo [flags]
//
// Examples:
//
//	delayinfo
//	delayinfo -time 0.25 -feedback 0.6 -wet 0.4
//	delayinfo -rate 48000 -max 2 -time 5
//	delayinfo -formula input -measure
//	delayinfo -cpu
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-delay/dsp/delay"
	"github.com/cwbudde/algo-delay/dsp/effects"
	"github.com/cwbudde/algo-delay/dsp/params"
	"github.com/cwbudde/algo-delay/measure/echo"
	"github.com/cwbudde/algo-delay/plugin"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	sampleRate float64
	maxDelay   float64
	snap       params.Snapshot
	formula    string
	shared     bool
	measure    bool
	cpu        bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	def := params.DefaultSnapshot()

	var o options
	fs := flag.NewFlagSet("delayinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Float64Var(&o.sampleRate, "rate", 44100, "sample rate in Hz")
	fs.Float64Var(&o.maxDelay, "max", 10, "maximum delay in seconds")
	fs.Float64Var(&o.snap.DelayTime, "time", def.DelayTime, "delay time in seconds")
	fs.Float64Var(&o.snap.Feedback, "feedback", def.Feedback, "feedback gain")
	fs.Float64Var(&o.snap.Wet, "wet", def.Wet, "wet gain")
	fs.Float64Var(&o.snap.Dry, "dry", def.Dry, "dry gain")
	fs.Float64Var(&o.snap.Amplitude, "amp", def.Amplitude, "output amplitude")
	fs.StringVar(&o.formula, "formula", effects.FeedbackMixed.String(), "feedback formula: mixed, input or offset-product")
	fs.BoolVar(&o.shared, "shared", false, "run all channels through one delay line")
	fs.BoolVar(&o.measure, "measure", false, "render an impulse response and analyze it")
	fs.BoolVar(&o.cpu, "cpu", false, "print detected SIMD features")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: delayinfo [flags]\n\n")
		_, _ = fmt.Fprintf(stderr, "Prints the feedback delay configuration and its echo pattern.\n\n")
		_, _ = fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	formula, err := effects.ParseFormula(o.formula)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	mode := plugin.Independent
	if o.shared {
		mode = plugin.Shared
	}

	p, err := plugin.New(
		plugin.WithSampleRate(o.sampleRate),
		plugin.WithMaxDelay(o.maxDelay),
		plugin.WithChannelMode(mode),
		plugin.WithFormula(formula),
		plugin.WithParameters(o.snap),
	)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	printInfo(tw, p)
	printParameters(tw, p.Parameters())
	printLine(tw, p)
	if formula == effects.FeedbackMixed {
		printMetrics(tw, "Predicted echoes", echo.Predict(p.Store().Snapshot(), p.SampleRate()))
	}
	if o.measure {
		if err := printMeasured(tw, p); err != nil {
			_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}
	if o.cpu {
		printFeatures(tw, cpu.DetectFeatures())
	}

	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: failed to flush output: %v\n", err)
		return 1
	}
	return 0
}

func printInfo(w io.Writer, p *plugin.Plugin) {
	info := p.Info()
	_, _ = fmt.Fprintf(w, "Plugin\n")
	_, _ = fmt.Fprintf(w, "  Name\t%s\n", info.Name)
	_, _ = fmt.Fprintf(w, "  Vendor\t%s\n", info.Vendor)
	_, _ = fmt.Fprintf(w, "  Unique ID\t%d\n", info.UniqueID)
	_, _ = fmt.Fprintf(w, "  Version\t%d\n", info.Version)
	_, _ = fmt.Fprintf(w, "  Category\t%s\n", info.Category)
	_, _ = fmt.Fprintf(w, "  Channels\t%d in / %d out (%s)\n", info.Inputs, info.Outputs, p.ChannelMode())
	_, _ = fmt.Fprintf(w, "\n")
}

func printParameters(w io.Writer, ps *plugin.Parameters) {
	_, _ = fmt.Fprintf(w, "Index\tParameter\tHost Value\tValue\tDisplay\n")
	_, _ = fmt.Fprintf(w, "-----\t---------\t----------\t-----\t-------\n")
	for i := 0; i < ps.Count(); i++ {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%.4f\t%.4f\t%s\n",
			i, ps.Name(i), ps.Get(i), ps.Plain(i), ps.DisplayText(i))
	}
	_, _ = fmt.Fprintf(w, "\n")
}

func printLine(w io.Writer, p *plugin.Plugin) {
	e := p.Engine(0)
	active := activeLength(p)

	_, _ = fmt.Fprintf(w, "Delay line\n")
	_, _ = fmt.Fprintf(w, "  Sample rate\t%.0f Hz\n", e.SampleRate())
	_, _ = fmt.Fprintf(w, "  Capacity\t%d samples (%.3f s)\n", e.Capacity(), e.MaxDelay())
	_, _ = fmt.Fprintf(w, "  Active length\t%d samples (%.3f s)\n", active, float64(active)/e.SampleRate())
	_, _ = fmt.Fprintf(w, "  Formula\t%s\n", e.Formula())
	_, _ = fmt.Fprintf(w, "\n")
}

// activeLength is the loop length the next block will use.
func activeLength(p *plugin.Plugin) int {
	e := p.Engine(0)
	return delay.ActiveLength(p.Store().DelayTime(), e.SampleRate(), e.Capacity())
}

func printMetrics(w io.Writer, title string, m echo.Metrics) {
	_, _ = fmt.Fprintf(w, "%s\n", title)
	_, _ = fmt.Fprintf(w, "  Delay\t%d samples (%.2f ms)\n", m.DelaySamples, m.Delay*1000)
	_, _ = fmt.Fprintf(w, "  Direct gain\t%.4f\n", m.DirectGain)
	_, _ = fmt.Fprintf(w, "  First echo gain\t%.4f\n", m.FirstEchoGain)
	_, _ = fmt.Fprintf(w, "  Decay ratio\t%.4f\n", m.DecayRatio)
	if math.IsInf(m.DecayTime60, 1) {
		_, _ = fmt.Fprintf(w, "  RT60\tnever\n")
	} else {
		_, _ = fmt.Fprintf(w, "  RT60\t%.3f s\n", m.DecayTime60)
	}
	if m.Echoes > 0 {
		_, _ = fmt.Fprintf(w, "  Echoes\t%d\n", m.Echoes)
	}
	_, _ = fmt.Fprintf(w, "\n")
}

// measuredRepeats is how many loop lengths the measured response covers.
const measuredRepeats = 16

func printMeasured(w io.Writer, p *plugin.Plugin) error {
	e := p.Engine(0)
	snap := p.Store().Snapshot()

	p.Reset()
	defer p.Reset()

	ir := make([]float64, measuredRepeats*activeLength(p)+1)
	ir[0] = 1
	e.ProcessInPlace(ir, snap)

	m, err := echo.NewAnalyzer(e.SampleRate()).Analyze(ir)
	if err != nil {
		return err
	}
	printMetrics(w, "Measured echoes", m)
	return nil
}

func printFeatures(w io.Writer, f cpu.Features) {
	_, _ = fmt.Fprintf(w, "CPU (%s)\n", f.Architecture)
	_, _ = fmt.Fprintf(w, "  SSE2\t%t\n", f.HasSSE2)
	_, _ = fmt.Fprintf(w, "  AVX2\t%t\n", f.HasAVX2)
	_, _ = fmt.Fprintf(w, "  NEON\t%t\n", f.HasNEON)
	_, _ = fmt.Fprintf(w, "  Forced generic\t%t\n", f.ForceGeneric)
}
