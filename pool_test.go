package zerxsite

import (
	"runtime"
	"testing"
)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	t.Run("explicit value wins", func(t *testing.T) {
		t.Parallel()
		if got := ResolvePoolSize(3); got != 3 {
			t.Errorf("ResolvePoolSize(3) = %d, want 3", got)
		}
		if got := ResolvePoolSize(20); got != 20 {
			t.Errorf("ResolvePoolSize(20) = %d, want 20", got)
		}
	})

	t.Run("auto stays within bounds", func(t *testing.T) {
		t.Parallel()
		got := ResolvePoolSize(0)
		if got < MinPoolSize || got > MaxPoolSize {
			t.Errorf("ResolvePoolSize(0) = %d, want between %d and %d", got, MinPoolSize, MaxPoolSize)
		}
		want := runtime.GOMAXPROCS(0) / cpuDivisor
		if want < MinPoolSize {
			want = MinPoolSize
		}
		if want > MaxPoolSize {
			want = MaxPoolSize
		}
		if got != want {
			t.Errorf("ResolvePoolSize(0) = %d, want %d", got, want)
		}
	})

	t.Run("negative is auto", func(t *testing.T) {
		t.Parallel()
		if ResolvePoolSize(-1) != ResolvePoolSize(0) {
			t.Error("negative workers should resolve like zero")
		}
	})
}
