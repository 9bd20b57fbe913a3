package mode

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

func TestNextOnEndedInRange(t *testing.T) {
	rnd := newRand()
	for _, m := range []Mode{LoopAll, LoopOne, Shuffle} {
		for n := 1; n <= 7; n++ {
			for i := 0; i < n; i++ {
				next, autoPlay, err := NextOnEnded(i, n, m, rnd)
				if err != nil {
					t.Fatalf("NextOnEnded(%d, %d, %s) вернул ошибку: %v", i, n, m, err)
				}
				if next < 0 || next >= n {
					t.Errorf("NextOnEnded(%d, %d, %s) = %d; вне диапазона", i, n, m, next)
				}
				if !autoPlay {
					t.Errorf("NextOnEnded(%d, %d, %s): ожидался autoPlay", i, n, m)
				}
			}
		}
	}
}

func TestNextOnEndedLoopAll(t *testing.T) {
	tests := []struct {
		current  int
		n        int
		expected int
	}{
		{0, 3, 1},
		{1, 3, 2},
		{2, 3, 0},
		{0, 1, 0},
	}

	for _, test := range tests {
		next, _, err := NextOnEnded(test.current, test.n, LoopAll, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next != test.expected {
			t.Errorf("NextOnEnded(%d, %d, LoopAll) = %d; expected %d", test.current, test.n, next, test.expected)
		}
	}
}

func TestNextOnEndedLoopOne(t *testing.T) {
	for i := 0; i < 5; i++ {
		next, _, err := NextOnEnded(i, 5, LoopOne, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next != i {
			t.Errorf("NextOnEnded(%d, 5, LoopOne) = %d; expected %d", i, next, i)
		}
	}
}

func TestNextOnEndedShuffleExcludesCurrent(t *testing.T) {
	rnd := newRand()
	for trial := 0; trial < 1000; trial++ {
		current := trial % 4
		next, _, err := NextOnEnded(current, 4, Shuffle, rnd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next == current {
			t.Fatalf("Shuffle вернул текущий трек %d на попытке %d", current, trial)
		}
	}
}

func TestNextOnEndedShuffleSingleTrack(t *testing.T) {
	next, autoPlay, err := NextOnEnded(0, 1, Shuffle, newRand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != 0 || !autoPlay {
		t.Errorf("ожидался повтор трека 0, получено %d (autoPlay=%v)", next, autoPlay)
	}
}

func TestNextOnEndedInvalidIndex(t *testing.T) {
	tests := []struct {
		current int
		n       int
	}{
		{0, 0},
		{-1, 3},
		{3, 3},
		{5, 3},
	}

	for _, test := range tests {
		_, _, err := NextOnEnded(test.current, test.n, LoopAll, nil)
		if !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("NextOnEnded(%d, %d): ожидалась ErrInvalidIndex, получено %v", test.current, test.n, err)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{"", LoopAll, false},
		{"loop-all", LoopAll, false},
		{"ONE", LoopOne, false},
		{"shuffle", Shuffle, false},
		{"random", Shuffle, false},
		{"sideways", LoopAll, true},
	}

	for _, test := range tests {
		m, err := ParseMode(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseMode(%q) error = %v; wantErr %v", test.input, err, test.wantErr)
		}
		if m != test.expected {
			t.Errorf("ParseMode(%q) = %s; expected %s", test.input, m, test.expected)
		}
	}
}

func TestModeNextCycles(t *testing.T) {
	if LoopAll.Next() != LoopOne || LoopOne.Next() != Shuffle || Shuffle.Next() != LoopAll {
		t.Error("Next должен перебирать режимы по кругу")
	}
	for _, m := range []Mode{LoopAll, LoopOne, Shuffle} {
		parsed, err := ParseMode(m.String())
		if err != nil || parsed != m {
			t.Errorf("ParseMode(%s.String()) = %s, %v", m, parsed, err)
		}
	}
}
