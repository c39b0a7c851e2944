package lazy

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upper(s string) (string, error) { return strings.ToUpper(s), nil }

func TestAllReplaysWithoutRecomputing(t *testing.T) {
	var calls atomic.Int32
	seq := Collect([]string{"a", "b", "c"}, func(s string) (string, error) {
		calls.Add(1)
		return upper(s)
	})

	first, err := seq.Slice()
	require.NoError(t, err)
	second, err := seq.Slice()
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNothingComputedUntilAsked(t *testing.T) {
	var reads int
	source := func(yield func(string) bool) {
		for _, s := range []string{"a", "b", "c", "d"} {
			reads++
			if !yield(s) {
				return
			}
		}
	}
	seq := New(source, upper)
	defer seq.Close()

	assert.Zero(t, seq.Computed())
	assert.Zero(t, reads)

	r, err := seq.At(1)
	require.NoError(t, err)
	assert.Equal(t, "B", r)
	assert.Equal(t, 2, seq.Computed())
	assert.Equal(t, 2, reads)
}

func TestPartialIterationThenResume(t *testing.T) {
	var calls int
	seq := Collect([]string{"x", "y", "z"}, func(s string) (string, error) {
		calls++
		return upper(s)
	})

	for r, err := range seq.All() {
		require.NoError(t, err)
		assert.Equal(t, "X", r)
		break
	}
	assert.Equal(t, 1, seq.Computed())

	all, err := seq.Slice()
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y", "Z"}, all)
	assert.Equal(t, 3, calls)
}

func TestAtOutOfRange(t *testing.T) {
	seq := Collect([]string{"a", "b"}, upper)

	_, err := seq.At(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = seq.At(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	r, err := seq.At(0)
	require.NoError(t, err)
	assert.Equal(t, "A", r)
}

func TestEmptySource(t *testing.T) {
	seq := Collect([]string(nil), upper)

	all, err := seq.Slice()
	require.NoError(t, err)
	assert.Empty(t, all)
	_, err = seq.At(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestErrorStopsAndRetries(t *testing.T) {
	boom := errors.New("boom")
	failures := 1
	seq := Collect([]string{"a", "b", "c"}, func(s string) (string, error) {
		if s == "b" && failures > 0 {
			failures--
			return "", boom
		}
		return upper(s)
	})

	var got []string
	var gotErr error
	for r, err := range seq.All() {
		if err != nil {
			gotErr = err
			continue
		}
		got = append(got, r)
	}
	assert.ErrorIs(t, gotErr, boom)
	assert.Equal(t, []string{"A"}, got)
	assert.Equal(t, 1, seq.Computed())

	all, err := seq.Slice()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, all)
}

func TestAtReturnsComputeError(t *testing.T) {
	boom := errors.New("boom")
	seq := Collect([]int{1, 2}, func(i int) (int, error) {
		if i == 2 {
			return 0, boom
		}
		return i * 10, nil
	})

	_, err := seq.At(1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, seq.Computed())
}

func TestCloseKeepsStoredResults(t *testing.T) {
	seq := Collect([]string{"a", "b", "c"}, upper)
	_, err := seq.At(0)
	require.NoError(t, err)

	seq.Close()

	all, err := seq.Slice()
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, all)
}

func TestConcurrentConsumersComputeOnce(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}
	var calls atomic.Int32
	seq := Collect(items, func(i int) (int, error) {
		calls.Add(1)
		return i * 2, nil
	})

	var wg sync.WaitGroup
	results := make([][]int, 8)
	for w := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[w], _ = seq.Slice()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), calls.Load())
	for _, r := range results {
		assert.Len(t, r, 100)
		assert.True(t, slices.IsSorted(r))
	}
}

func TestSlowComputeDoesNotBlockReaders(t *testing.T) {
	started, release := make(chan struct{}), make(chan struct{})
	var calls atomic.Int32
	seq := Collect([]string{"a", "b"}, func(s string) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
		}
		return upper(s)
	})

	type outcome struct {
		r   string
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		r, err := seq.At(0)
		first <- outcome{r, err}
	}()
	<-started

	done := make(chan struct{})
	go func() {
		assert.Zero(t, seq.Computed())
		seq.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Computed and Close blocked behind a running compute")
	}

	close(release)
	out := <-first
	require.NoError(t, out.err)
	assert.Equal(t, "A", out.r)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, seq.Computed())
}
