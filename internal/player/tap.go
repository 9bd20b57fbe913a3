package player

import (
	"sync"

	"github.com/gopxl/beep"
)

// Tap пропускает звук без изменений и копирует моно сумму в кольцевой буфер
type Tap struct {
	s    beep.Streamer
	mu   sync.Mutex
	buf  []float64
	pos  int
	size int
}

// NewTap оборачивает поток кольцевым буфером заданного размера
func NewTap(s beep.Streamer, size int) *Tap {
	return &Tap{
		s:    s,
		buf:  make([]float64, size),
		size: size,
	}
}

// Stream реализует beep.Streamer
func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)
	t.mu.Lock()
	for i := range n {
		t.buf[t.pos] = (samples[i][0] + samples[i][1]) / 2
		t.pos = (t.pos + 1) % t.size
	}
	t.mu.Unlock()
	return n, ok
}

// Err возвращает ошибку исходного потока
func (t *Tap) Err() error {
	return t.s.Err()
}

// Samples возвращает последние n отсчетов в хронологическом порядке
func (t *Tap) Samples(n int) []float64 {
	n = min(n, t.size)
	out := make([]float64, n)
	t.mu.Lock()
	start := (t.pos - n + t.size) % t.size
	for i := range n {
		out[i] = t.buf[(start+i)%t.size]
	}
	t.mu.Unlock()
	return out
}
