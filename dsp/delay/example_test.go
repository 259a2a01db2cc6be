package delay_test

import (
	"fmt"

	"github.com/cwbudde/algo-delay/dsp/delay"
)

func ExampleActiveLength() {
	const capacity = 441000 // 10 s at 44.1 kHz

	fmt.Println(delay.ActiveLength(0.25, 44100, capacity))
	fmt.Println(delay.ActiveLength(12, 44100, capacity))
	fmt.Println(delay.ActiveLength(-1, 44100, capacity))

	// Output:
	// 11025
	// 441000
	// 1
}
