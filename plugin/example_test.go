package plugin_test

import (
	"fmt"

	"github.com/cwbudde/algo-delay/plugin"
)

func ExamplePlugin_Process() {
	p, err := plugin.New(
		plugin.WithSampleRate(1000),
		plugin.WithMaxDelay(1),
		plugin.WithChannels(1),
	)
	if err != nil {
		panic(err)
	}

	ps := p.Parameters()
	ps.Set(plugin.ParamAmplitude, 1)
	ps.Set(plugin.ParamDry, 0)
	ps.Set(plugin.ParamWet, 1)
	ps.Set(plugin.ParamFeedback, 0.5)
	ps.Set(plugin.ParamDelayTime, 0.003) // 3 ms

	in := [][]float64{{1, 0, 0, 0, 0, 0, 0}}
	out := [][]float64{make([]float64, 7)}
	p.Process(in, out)

	fmt.Println(out[0])
	fmt.Println(ps.DisplayText(plugin.ParamDelayTime))
	// Output:
	// [0 0 0 0.5 0 0 0.25]
	// 3.0 ms
}

func ExampleParameters_DisplayText() {
	p, err := plugin.New()
	if err != nil {
		panic(err)
	}

	ps := p.Parameters()
	for i := 0; i < ps.Count(); i++ {
		fmt.Printf("%-10s %s\n", ps.Name(i), ps.DisplayText(i))
	}
	// Output:
	// Amplitude  -6.0 dB
	// Feedback   30%
	// Delay Time 1.00 s
	// Wet        50%
	// Dry        50%
}
