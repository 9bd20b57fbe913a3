// Package transport содержит контроллер воспроизведения - единственного владельца медиа ресурса
package transport

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hazadus/go-tracklist/internal/catalog"
	"github.com/hazadus/go-tracklist/internal/mode"
	"github.com/hazadus/go-tracklist/internal/persist"
	"github.com/hazadus/go-tracklist/internal/utils"
)

// Media единственный воспроизводимый ресурс
type Media interface {
	// SetSource назначает адрес аудио; воспроизведение прежнего источника прекращается
	SetSource(locator string)
	// Play начинает или продолжает воспроизведение; ошибка означает отказ
	Play() error
	Pause()
	// Seek устанавливает позицию; до открытия источника позиция запоминается
	Seek(pos time.Duration) error
	Position() time.Duration
	// Duration возвращает 0, пока длительность неизвестна
	Duration() time.Duration
	SetVolume(v float64)
}

// Snapshots сохраняет и восстанавливает позицию воспроизведения
type Snapshots interface {
	Save(ctx context.Context, index int, position time.Duration) error
	Restore(ctx context.Context, n int) (persist.Snapshot, bool)
}

// State состояние воспроизведения
type State struct {
	CurrentIndex int // -1, если ничего не загружено
	Mode         mode.Mode
	IsPlaying    bool
	Position     time.Duration
	Duration     time.Duration
	Volume       float64 // [0, 1]
}

// Loaded возвращает true, если выбран трек
func (s State) Loaded() bool {
	return s.CurrentIndex >= 0
}

// EventKind тип события контроллера
type EventKind int

// Типы событий
const (
	// EventSelected выбран другой трек
	EventSelected EventKind = iota
	// EventStateChanged изменилось состояние воспроизведения, громкость или режим
	EventStateChanged
	// EventTick периодическое обновление позиции
	EventTick
	// EventRejected воспроизведение отклонено
	EventRejected
)

// Event уведомление наблюдателям
type Event struct {
	Kind  EventKind
	State State
	Err   error
}

// Observer получает события контроллера
type Observer func(Event)

// Option настраивает контроллер
type Option func(*Controller)

// WithSnapshots подключает хранилище позиции
func WithSnapshots(s Snapshots) Option {
	return func(c *Controller) { c.snapshots = s }
}

// WithLogger задает логгер
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithRand задает источник случайных чисел для режима Shuffle
func WithRand(r mode.Rand) Option {
	return func(c *Controller) { c.rnd = r }
}

// WithMode задает начальный режим
func WithMode(m mode.Mode) Option {
	return func(c *Controller) { c.state.Mode = m }
}

// WithVolume задает начальную громкость
func WithVolume(v float64) Option {
	return func(c *Controller) { c.state.Volume = utils.Clamp(v, 0, 1) }
}

// WithContext задает контекст для записи состояния
func WithContext(ctx context.Context) Option {
	return func(c *Controller) { c.ctx = ctx }
}

// Controller управляет воспроизведением. Все операции сериализуются мьютексом,
// наблюдатели вызываются после его освобождения.
type Controller struct {
	mu        sync.Mutex
	ctx       context.Context
	catalog   *catalog.Catalog
	media     Media
	snapshots Snapshots
	log       *zap.Logger
	rnd       mode.Rand

	state     State
	observers []Observer
	pending   []Event
}

// New создает контроллер с состоянием "ничего не загружено"
func New(cat *catalog.Catalog, media Media, opts ...Option) *Controller {
	c := &Controller{
		ctx:     context.Background(),
		catalog: cat,
		media:   media,
		log:     zap.NewNop(),
		state: State{
			CurrentIndex: -1,
			Mode:         mode.LoopAll,
			Volume:       1,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rnd == nil {
		c.rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	}
	c.media.SetVolume(c.state.Volume)
	return c
}

// Subscribe добавляет наблюдателя
func (c *Controller) Subscribe(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// State возвращает копию текущего состояния
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Catalog возвращает каталог треков
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// Load выбирает трек без запуска воспроизведения
func (c *Controller) Load(index int) error {
	return c.do(func() error { return c.load(index) })
}

// Play запускает воспроизведение; без выбранного трека загружает первый
func (c *Controller) Play() error {
	return c.do(c.play)
}

// Pause приостанавливает воспроизведение, сохраняя позицию
func (c *Controller) Pause() {
	_ = c.do(func() error {
		c.pause()
		return nil
	})
}

// TogglePlayPause переключает паузу для уже загруженного трека,
// иначе загружает трек и запускает его с начала
func (c *Controller) TogglePlayPause(index int) error {
	return c.do(func() error {
		if c.catalog.Empty() {
			return nil
		}
		if index < 0 || index >= c.catalog.Len() {
			return c.invalid(index)
		}
		if index == c.state.CurrentIndex {
			if c.state.IsPlaying {
				c.pause()
				return nil
			}
			return c.play()
		}
		if err := c.load(index); err != nil {
			return err
		}
		return c.play()
	})
}

// TogglePlayback действие главной кнопки и пробела
func (c *Controller) TogglePlayback() error {
	return c.do(func() error {
		if c.state.IsPlaying {
			c.pause()
			return nil
		}
		return c.play()
	})
}

// Seek переходит к доле длительности fraction из [0, 1]
func (c *Controller) Seek(fraction float64) error {
	return c.do(func() error {
		duration := c.media.Duration()
		if !c.state.Loaded() || duration <= 0 {
			return nil
		}
		pos := time.Duration(utils.Clamp(fraction, 0, 1) * float64(duration))
		return c.seek(pos)
	})
}

// SeekTo переходит к позиции, ограниченной [0, длительность]
func (c *Controller) SeekTo(pos time.Duration) error {
	return c.do(func() error {
		duration := c.media.Duration()
		if !c.state.Loaded() || duration <= 0 {
			return nil
		}
		return c.seek(min(max(pos, 0), duration))
	})
}

// SeekBy сдвигает позицию на delta
func (c *Controller) SeekBy(delta time.Duration) error {
	return c.do(func() error {
		duration := c.media.Duration()
		if !c.state.Loaded() || duration <= 0 {
			return nil
		}
		return c.seek(min(max(c.media.Position()+delta, 0), duration))
	})
}

// SetVolume устанавливает громкость, ограничивая ее [0, 1]
func (c *Controller) SetVolume(v float64) {
	_ = c.do(func() error {
		c.state.Volume = utils.Clamp(v, 0, 1)
		c.media.SetVolume(c.state.Volume)
		c.publish(EventStateChanged, nil)
		return nil
	})
}

// Next переходит к следующему треку по кругу независимо от режима
func (c *Controller) Next() error {
	return c.do(func() error { return c.step(+1) })
}

// Previous переходит к предыдущему треку по кругу независимо от режима
func (c *Controller) Previous() error {
	return c.do(func() error { return c.step(-1) })
}

// SetMode меняет режим; он применяется при следующем окончании трека
func (c *Controller) SetMode(m mode.Mode) {
	_ = c.do(func() error {
		c.state.Mode = m
		c.publish(EventStateChanged, nil)
		return nil
	})
}

// CycleMode переключает режим на следующий
func (c *Controller) CycleMode() {
	_ = c.do(func() error {
		c.state.Mode = c.state.Mode.Next()
		c.publish(EventStateChanged, nil)
		return nil
	})
}

// HandleEnded обрабатывает естественное окончание трека по политике режима
func (c *Controller) HandleEnded() error {
	return c.do(func() error {
		if c.catalog.Empty() || !c.state.Loaded() {
			return nil
		}

		next, autoPlay, err := mode.NextOnEnded(c.state.CurrentIndex, c.catalog.Len(), c.state.Mode, c.rnd)
		if err != nil {
			c.log.Error("не удалось выбрать следующий трек", zap.Error(err))
			return err
		}

		c.state.IsPlaying = false
		if next == c.state.CurrentIndex {
			if err := c.media.Seek(0); err != nil {
				c.log.Warn("не удалось перемотать трек в начало", zap.Error(err))
			}
		} else if err := c.load(next); err != nil {
			return err
		}

		if !autoPlay {
			c.publish(EventStateChanged, nil)
			return nil
		}
		return c.play()
	})
}

// Tick обновляет позицию и длительность и сохраняет состояние
func (c *Controller) Tick() {
	_ = c.do(func() error {
		if !c.state.Loaded() {
			return nil
		}
		c.publish(EventTick, nil)
		return nil
	})
}

// Restore восстанавливает трек и позицию из хранилища без запуска воспроизведения
func (c *Controller) Restore(ctx context.Context) bool {
	var restored bool
	_ = c.do(func() error {
		if c.snapshots == nil || c.catalog.Empty() {
			return nil
		}
		snap, ok := c.snapshots.Restore(ctx, c.catalog.Len())
		if !ok {
			return nil
		}

		c.selectTrack(snap.TrackIndex)
		if err := c.media.Seek(snap.Position); err != nil {
			c.log.Warn("не удалось восстановить позицию", zap.Error(err))
		}
		c.publish(EventSelected, nil)
		c.log.Info("состояние восстановлено",
			zap.Int("index", snap.TrackIndex),
			zap.Duration("position", snap.Position))
		restored = true
		return nil
	})
	return restored
}

// Методы ниже вызываются под мьютексом

func (c *Controller) load(index int) error {
	if c.catalog.Empty() {
		return nil
	}
	if index < 0 || index >= c.catalog.Len() {
		return c.invalid(index)
	}
	c.selectTrack(index)
	c.publish(EventSelected, nil)
	return nil
}

func (c *Controller) selectTrack(index int) {
	locator, _ := c.catalog.Resolve(index)
	c.media.SetSource(locator)
	c.state.CurrentIndex = index
	c.state.IsPlaying = false
	c.state.Position = 0
	c.state.Duration = 0
	c.log.Debug("трек выбран", zap.Int("index", index), zap.String("locator", locator))
}

func (c *Controller) play() error {
	if c.catalog.Empty() {
		return nil
	}
	if !c.state.Loaded() {
		if err := c.load(0); err != nil {
			return err
		}
	}
	if c.state.IsPlaying {
		return nil
	}

	if err := c.media.Play(); err != nil {
		track, _ := c.catalog.Track(c.state.CurrentIndex)
		rejected := &PlaybackRejectedError{
			Index: c.state.CurrentIndex,
			Title: track.Title,
			Err:   err,
		}
		c.state.IsPlaying = false
		c.log.Warn("воспроизведение отклонено", zap.Int("index", rejected.Index), zap.Error(err))
		c.publish(EventRejected, rejected)
		return rejected
	}

	c.state.IsPlaying = true
	c.publish(EventStateChanged, nil)
	return nil
}

func (c *Controller) pause() {
	if !c.state.IsPlaying {
		return
	}
	c.media.Pause()
	c.state.IsPlaying = false
	c.publish(EventStateChanged, nil)
}

func (c *Controller) seek(pos time.Duration) error {
	if err := c.media.Seek(pos); err != nil {
		c.log.Warn("ошибка перемотки", zap.Duration("position", pos), zap.Error(err))
		return err
	}
	c.publish(EventStateChanged, nil)
	return nil
}

func (c *Controller) step(delta int) error {
	n := c.catalog.Len()
	if n == 0 {
		return nil
	}
	next := ((c.state.CurrentIndex+delta)%n + n) % n
	if err := c.load(next); err != nil {
		return err
	}
	return c.play()
}

func (c *Controller) invalid(index int) error {
	err := invalidIndex(index, c.catalog.Len())
	c.log.Warn("индекс трека вне диапазона", zap.Error(err))
	return err
}

// publish обновляет позицию из медиа, ставит событие в очередь и сохраняет состояние
func (c *Controller) publish(kind EventKind, err error) {
	if c.state.Loaded() {
		c.state.Position = c.media.Position()
		c.state.Duration = c.media.Duration()
	}
	c.pending = append(c.pending, Event{Kind: kind, State: c.state, Err: err})

	if c.snapshots != nil && c.state.Loaded() {
		if saveErr := c.snapshots.Save(c.ctx, c.state.CurrentIndex, c.state.Position); saveErr != nil {
			c.log.Warn("ошибка сохранения состояния", zap.Error(saveErr))
		}
	}
}

// do выполняет операцию под мьютексом и затем рассылает накопленные события
func (c *Controller) do(fn func() error) error {
	c.mu.Lock()
	err := fn()
	events := c.pending
	c.pending = nil
	observers := append([]Observer(nil), c.observers...)
	c.mu.Unlock()

	for _, ev := range events {
		for _, o := range observers {
			o(ev)
		}
	}
	return err
}

// IsRejected проверяет, что ошибка означает отказ в воспроизведении
func IsRejected(err error) bool {
	return errors.Is(err, ErrPlaybackRejected)
}
