// Package delay provides a fixed-capacity circular delay line whose used
// length can change at run time without reallocating.
package delay

import (
	"fmt"
	"math"
)

// Line is a circular delay line with an adjustable active window.
//
// The buffer is allocated once. Only buffer[:active] takes part in the loop,
// so shortening the delay never moves or frees memory. The cursor always
// satisfies 0 <= writePos < active <= Len().
type Line struct {
	buffer   []float64
	writePos int
	active   int
}

// New returns a zero-filled delay line of fixed size. The whole buffer is
// active until SetActive is called.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size), active: size}, nil
}

// ActiveLength converts a delay time to a loop length in samples, rounded
// to the nearest sample and clamped into [1, capacity]. NaN and negative
// inputs give 1, +Inf gives capacity. capacity < 1 is treated as 1.
func ActiveLength(delaySeconds, sampleRate float64, capacity int) int {
	if capacity < 1 {
		capacity = 1
	}

	n := math.Round(delaySeconds * sampleRate)
	switch {
	case math.IsNaN(n) || n < 1:
		return 1
	case n >= float64(capacity):
		return capacity
	default:
		return int(n)
	}
}

// Len returns the fixed buffer capacity.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Active returns the number of samples currently in the loop.
func (d *Line) Active() int {
	return d.active
}

// WritePos returns the cursor position.
func (d *Line) WritePos() int {
	return d.writePos
}

// SetActive sets the loop length, clamped into [1, Len()], and returns the
// applied value. If the cursor lies outside the new window it wraps to 0.
func (d *Line) SetActive(n int) int {
	if n < 1 {
		n = 1
	}
	if n > len(d.buffer) {
		n = len(d.buffer)
	}
	d.active = n
	if d.writePos >= n {
		d.writePos = 0
	}
	return n
}

// Read returns the sample under the cursor, written one loop length ago.
func (d *Line) Read() float64 {
	return d.buffer[d.writePos]
}

// Write stores sample under the cursor and advances it by one.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= d.active {
		d.writePos = 0
	}
}

// Segment returns the contiguous slice of the loop starting at the cursor,
// at most maxLen samples long and never crossing the end of the active
// window. The slice aliases the line's storage.
func (d *Line) Segment(maxLen int) []float64 {
	end := d.writePos + maxLen
	if end > d.active {
		end = d.active
	}
	if end < d.writePos {
		end = d.writePos
	}
	return d.buffer[d.writePos:end]
}

// Advance moves the cursor forward by n samples modulo the active length.
func (d *Line) Advance(n int) {
	if n <= 0 {
		return
	}
	d.writePos = (d.writePos + n) % d.active
}

// Reset clears line state. The active length is kept.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}
