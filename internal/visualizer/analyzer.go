// Package visualizer строит спектр звука для столбиковой визуализации
package visualizer

import (
	"math"
	"math/cmplx"
	"strings"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// FFTSize число отсчетов в окне анализа
const FFTSize = 1024

// Диапазон уровней, отображаемый в [0, 1]
const (
	MinDB = -60.0
	MaxDB = 0.0
)

// MinFreq нижняя граница шкалы частот, Гц
const MinFreq = 40.0

// Source поставляет последние отсчеты моно сигнала
type Source interface {
	Samples(n int) []float64
}

// Analyzer вычисляет амплитуды частотных полос
type Analyzer struct {
	src        Source
	sampleRate int
}

// New создает анализатор поверх источника отсчетов
func New(src Source, sampleRate int) *Analyzer {
	return &Analyzer{src: src, sampleRate: sampleRate}
}

// Magnitudes возвращает bins значений из [0, 1] в логарифмической шкале частот
func (a *Analyzer) Magnitudes(bins int) []float64 {
	if bins <= 0 {
		return nil
	}

	samples := a.src.Samples(FFTSize)
	if len(samples) < FFTSize {
		samples = append(make([]float64, FFTSize-len(samples)), samples...)
	}
	window.Apply(samples, window.Hann)
	coeffs := fft.FFTReal(samples)

	half := FFTSize / 2
	// Полноразмерная синусоида после окна Ханна дает пик FFTSize/4
	fullScale := float64(FFTSize) / 4

	first := a.firstBin()
	bounds := edges(bins, first, half)

	out := make([]float64, bins)
	for k := range out {
		lo, hi := band(bounds, k, first, half)
		var peak float64
		for i := lo; i < hi; i++ {
			peak = max(peak, cmplx.Abs(coeffs[i]))
		}
		out[k] = level(peak / fullScale)
	}
	return out
}

// firstBin индекс FFT, соответствующий MinFreq
func (a *Analyzer) firstBin() int {
	if a.sampleRate <= 0 {
		return 1
	}
	return max(int(MinFreq*FFTSize/float64(a.sampleRate)), 1)
}

// edges возвращает bins+1 границ полос в логарифмической шкале от first до half.
// Где логарифмический шаг меньше одного индекса, границы идут подряд,
// поэтому низкие полосы не повторяют одно и то же значение.
func edges(bins, first, half int) []int {
	e := make([]int, bins+1)
	ratio := float64(half) / float64(first)
	for k := range e {
		e[k] = int(math.Round(float64(first) * math.Pow(ratio, float64(k)/float64(bins))))
		if k > 0 {
			e[k] = max(e[k], e[k-1]+1)
		}
	}
	for k := bins; k >= 0; k-- {
		e[k] = min(e[k], half-(bins-k))
	}
	return e
}

// band возвращает границы [lo, hi) полосы k внутри [first, half)
func band(e []int, k, first, half int) (int, int) {
	lo := max(e[k], first)
	hi := min(max(e[k+1], lo+1), half)
	if lo >= hi {
		lo = hi - 1
	}
	return lo, hi
}

func level(ratio float64) float64 {
	if ratio <= 0 {
		return 0
	}
	db := 20 * math.Log10(ratio)
	return min(max((db-MinDB)/(MaxDB-MinDB), 0), 1)
}

var blocks = []rune("▁▂▃▄▅▆▇█")

// Bars рисует значения из [0, 1] строкой блочных символов
func Bars(magnitudes []float64) string {
	var b strings.Builder
	for _, m := range magnitudes {
		i := int(math.Round(min(max(m, 0), 1) * float64(len(blocks)-1)))
		b.WriteRune(blocks[i])
	}
	return b.String()
}
