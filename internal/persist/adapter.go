package persist

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/hazadus/go-tracklist/internal/utils"
)

// DefaultKey имя слота с сохраненным состоянием
const DefaultKey = "musicPlayerState"

// Snapshot минимальная запись для продолжения сессии
type Snapshot struct {
	TrackIndex int
	Position   time.Duration
}

// wireSnapshot формат записи в хранилище
type wireSnapshot struct {
	TrackIndex  *float64 `json:"trackIndex"`
	CurrentTime float64  `json:"currentTime"`
}

// Adapter сохраняет и восстанавливает Snapshot
type Adapter struct {
	store Store
	key   string
	log   *zap.Logger
}

// NewAdapter создает адаптер поверх хранилища. Пустой key заменяется DefaultKey.
func NewAdapter(store Store, key string, log *zap.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{store: store, key: key, log: log}
}

// Save записывает индекс и позицию. Для index == -1 ничего не делает.
func (a *Adapter) Save(ctx context.Context, index int, position time.Duration) error {
	if index < 0 {
		return nil
	}

	idx := float64(index)
	raw, err := json.Marshal(wireSnapshot{
		TrackIndex:  &idx,
		CurrentTime: position.Seconds(),
	})
	if err != nil {
		return err
	}
	return a.store.Set(ctx, a.key, string(raw))
}

// Restore читает сохраненное состояние для каталога длины n.
// Никогда не возвращает ошибку: отсутствие, повреждение или индекс вне
// диапазона означают, что состояния нет.
func (a *Adapter) Restore(ctx context.Context, n int) (Snapshot, bool) {
	value, ok, err := a.store.Get(ctx, a.key)
	if err != nil {
		a.log.Warn("не удалось прочитать сохраненное состояние", zap.Error(err))
		return Snapshot{}, false
	}
	if !ok {
		return Snapshot{}, false
	}

	var wire wireSnapshot
	if err := json.Unmarshal([]byte(value), &wire); err != nil {
		a.log.Warn("сохраненное состояние повреждено", zap.Error(err))
		return Snapshot{}, false
	}
	if wire.TrackIndex == nil {
		a.log.Warn("в сохраненном состоянии нет индекса трека")
		return Snapshot{}, false
	}

	index := *wire.TrackIndex
	if index != math.Trunc(index) || index < 0 || index >= float64(n) {
		a.log.Warn("индекс сохраненного трека вне каталога",
			zap.Float64("track_index", index),
			zap.Int("catalog_len", n))
		return Snapshot{}, false
	}

	position := utils.Seconds(wire.CurrentTime)
	if position < 0 {
		position = 0
	}

	return Snapshot{TrackIndex: int(index), Position: position}, true
}

// Clear удаляет сохраненное состояние
func (a *Adapter) Clear(ctx context.Context) error {
	return a.store.Delete(ctx, a.key)
}

// Raw возвращает сохраненное значение без разбора
func (a *Adapter) Raw(ctx context.Context) (string, bool, error) {
	return a.store.Get(ctx, a.key)
}
