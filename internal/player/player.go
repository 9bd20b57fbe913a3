// Package player содержит компоненты для управления воспроизведением аудио
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"go.uber.org/zap"

	"github.com/hazadus/go-tracklist/internal/utils"
	"github.com/hazadus/go-tracklist/internal/visualizer"
)

// SampleRate частота дискретизации выхода; все треки передискретизируются к ней
const SampleRate = beep.SampleRate(44100)

// TapSize размер буфера отсчетов для визуализатора
const TapSize = 4096

var (
	// ErrNoSource источник не назначен
	ErrNoSource = errors.New("источник аудио не назначен")
	// ErrNoMedia источник еще не открыт, анализировать нечего
	ErrNoMedia = errors.New("аудио еще не открыто")
)

// Decoder декодирует поток байтов в поток отсчетов
type Decoder func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// Option настраивает плеер
type Option func(*Player)

// WithOutput задает звуковой выход
func WithOutput(o Output) Option {
	return func(p *Player) { p.output = o }
}

// WithDecoder задает декодер
func WithDecoder(d Decoder) Option {
	return func(p *Player) { p.decode = d }
}

// WithLogger задает логгер
func WithLogger(l *zap.Logger) Option {
	return func(p *Player) { p.log = l }
}

// Player единственный медиа ресурс: один источник, пауза, перемотка и громкость.
// Источник открывается лениво при первом Play.
type Player struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	opener Opener
	decode Decoder
	output Output
	log    *zap.Logger

	isInitialized bool
	locator       string
	pending       time.Duration // Позиция, которую нужно применить при открытии
	level         float64

	// Компоненты для воспроизведения
	source   io.ReadCloser
	streamer beep.StreamSeekCloser
	format   beep.Format
	volume   *effects.Volume
	tap      *Tap
	ctrl     *beep.Ctrl

	attached   bool
	generation uint64
	ended      chan struct{}
}

// NewPlayer создает новый экземпляр плеера
func NewPlayer(opener Opener, opts ...Option) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Player{
		ctx:    ctx,
		cancel: cancel,
		opener: opener,
		decode: mp3.Decode,
		output: speakerOutput{},
		log:    zap.NewNop(),
		level:  1,
		ended:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ended возвращает канал, в который приходит сигнал о естественном окончании трека
func (p *Player) Ended() <-chan struct{} {
	return p.ended
}

// SetSource назначает новый источник и прекращает воспроизведение прежнего
func (p *Player) SetSource(locator string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closeLocked()
	p.locator = locator
	p.pending = 0
}

// Play начинает или продолжает воспроизведение
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.locator == "" {
		return ErrNoSource
	}
	if p.streamer == nil {
		if err := p.openLocked(); err != nil {
			return err
		}
	}
	if !p.attached {
		p.attachLocked()
	}

	p.output.Lock()
	p.ctrl.Paused = false
	p.output.Unlock()
	return nil
}

// Pause приостанавливает воспроизведение
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl != nil {
		p.output.Lock()
		p.ctrl.Paused = true
		p.output.Unlock()
	}
}

// Paused возвращает true, если звук сейчас не воспроизводится
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl == nil || !p.attached {
		return true
	}
	p.output.Lock()
	defer p.output.Unlock()
	return p.ctrl.Paused
}

// Seek устанавливает позицию воспроизведения
func (p *Player) Seek(pos time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	pos = max(pos, 0)
	if p.streamer == nil {
		p.pending = pos
		return nil
	}

	err := p.seekLocked(pos)
	if err == nil {
		return nil
	}
	if pos != 0 {
		return fmt.Errorf("ошибка перемотки: %w", err)
	}

	// Поток без произвольного доступа открываем заново
	p.output.Lock()
	playing := p.attached && !p.ctrl.Paused
	p.output.Unlock()

	p.closeLocked()
	if err := p.openLocked(); err != nil {
		return err
	}
	if playing {
		p.attachLocked()
		p.output.Lock()
		p.ctrl.Paused = false
		p.output.Unlock()
	}
	return nil
}

// Position возвращает текущую позицию
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return p.pending
	}
	p.output.Lock()
	defer p.output.Unlock()
	return p.format.SampleRate.D(p.streamer.Position())
}

// Duration возвращает длительность трека или 0, если она неизвестна
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return 0
	}
	p.output.Lock()
	n := p.streamer.Len()
	p.output.Unlock()
	if n <= 0 {
		return 0
	}
	return p.format.SampleRate.D(n)
}

// SetVolume устанавливает громкость из диапазона [0, 1]
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.level = utils.Clamp(v, 0, 1)
	if p.volume != nil {
		p.output.Lock()
		applyVolume(p.volume, p.level)
		p.output.Unlock()
	}
}

// Samples возвращает последние n отсчетов текущего трека
func (p *Player) Samples(n int) []float64 {
	p.mu.Lock()
	tap := p.tap
	p.mu.Unlock()

	if tap == nil {
		return make([]float64, n)
	}
	return tap.Samples(n)
}

// Analyzer возвращает анализатор спектра текущего звука
func (p *Player) Analyzer() (*visualizer.Analyzer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tap == nil {
		return nil, ErrNoMedia
	}
	return visualizer.New(p, int(SampleRate)), nil
}

// Close закрывает плеер и освобождает ресурсы
func (p *Player) Close() error {
	p.cancel()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}

// openLocked открывает источник и собирает цепочку Resample -> Volume -> Tap -> Ctrl
func (p *Player) openLocked() error {
	source, err := p.opener.Open(p.ctx, p.locator)
	if err != nil {
		return fmt.Errorf("ошибка открытия источника: %w", err)
	}

	streamer, format, err := p.decode(source)
	if err != nil {
		source.Close()
		return fmt.Errorf("ошибка декодирования MP3: %w", err)
	}

	// Инициализируем speaker (только один раз)
	if !p.isInitialized {
		if err := p.output.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			source.Close()
			return fmt.Errorf("ошибка инициализации динамиков: %w", err)
		}
		p.isInitialized = true
	}

	if p.pending > 0 {
		n := min(format.SampleRate.N(p.pending), max(streamer.Len(), 0))
		if err := streamer.Seek(n); err != nil {
			p.log.Warn("не удалось применить сохраненную позицию", zap.Error(err))
		}
	}
	p.pending = 0

	var resampled beep.Streamer = streamer
	if format.SampleRate != SampleRate {
		resampled = beep.Resample(4, format.SampleRate, SampleRate, streamer)
	}

	p.volume = &effects.Volume{Streamer: resampled, Base: 2}
	applyVolume(p.volume, p.level)
	p.tap = NewTap(p.volume, TapSize)
	p.ctrl = &beep.Ctrl{Streamer: p.tap, Paused: true}
	p.source = source
	p.streamer = streamer
	p.format = format

	p.log.Debug("источник открыт",
		zap.String("locator", p.locator),
		zap.Int("sample_rate", int(format.SampleRate)))
	return nil
}

// attachLocked передает цепочку в выход; окончание старых поколений игнорируется
func (p *Player) attachLocked() {
	p.generation++
	gen := p.generation
	p.output.Play(beep.Seq(p.ctrl, beep.Callback(func() {
		// Колбэк вызывается под блокировкой speaker
		go p.finished(gen)
	})))
	p.attached = true
}

func (p *Player) finished(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return
	}
	p.attached = false

	// Отправка под мьютексом: closeLocked не пропустит сигнал старого поколения
	select {
	case p.ended <- struct{}{}:
	default:
	}
}

func (p *Player) seekLocked(pos time.Duration) error {
	n := p.format.SampleRate.N(pos)
	if length := p.streamer.Len(); length > 0 {
		n = min(n, length)
	}
	p.output.Lock()
	defer p.output.Unlock()
	return p.streamer.Seek(n)
}

// closeLocked останавливает воспроизведение и закрывает источник
func (p *Player) closeLocked() {
	p.generation++
	if p.attached && p.isInitialized {
		p.output.Clear()
	}
	p.attached = false

	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	if p.source != nil {
		p.source.Close()
		p.source = nil
	}
	p.ctrl = nil
	p.volume = nil
	p.tap = nil

	// Сбрасываем необработанный сигнал окончания прежнего трека
	select {
	case <-p.ended:
	default:
	}
}

// applyVolume переводит линейную громкость в показатель степени двойки
func applyVolume(v *effects.Volume, level float64) {
	if level <= 0 {
		v.Silent = true
		return
	}
	v.Silent = false
	v.Volume = math.Log2(level)
}
