package splendir

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancellationToken(t *testing.T) {
	var nilToken *CancellationToken
	assert.False(t, nilToken.IsCancelled())
	nilToken.Cancel()

	token := NewCancellationToken()
	assert.False(t, token.IsCancelled())
	token.Cancel()
	token.Cancel()
	assert.True(t, token.IsCancelled())

	var zero CancellationToken
	assert.False(t, zero.IsCancelled())
}

func TestCancelOnClose(t *testing.T) {
	token := NewCancellationToken()
	ch := make(chan struct{})
	token.CancelOnClose(ch)
	assert.False(t, token.IsCancelled())

	close(ch)
	assert.Eventually(t, token.IsCancelled, time.Second, time.Millisecond)
}

func TestProgressEmitterMonotonic(t *testing.T) {
	var got []float64
	e := newProgressEmitter(func(f float64, _ string) { got = append(got, f) }, nil)

	e.emit(0, "start")
	e.emit(0.5, "half")
	e.emit(0.3, "stale")
	e.emit(0.5, "again")
	e.emit(2, "overflow")
	e.emit(-1, "underflow")

	assert.Equal(t, []float64{0, 0.5, 0.5, 1}, got)
}

func TestProgressEmitterStopsAfterCancel(t *testing.T) {
	token := NewCancellationToken()
	calls := 0
	e := newProgressEmitter(func(float64, string) { calls++ }, token)

	e.emit(0.1, "a")
	token.Cancel()
	e.emit(0.2, "b")
	e.emit(1, "c")
	assert.Equal(t, 1, calls)

	var nilEmitter *progressEmitter
	nilEmitter.emit(0.5, "ignored")
	newProgressEmitter(nil, nil).emit(0.5, "ignored")
}

func TestProgressEmitterConcurrent(t *testing.T) {
	var mu sync.Mutex
	var got []float64
	e := newProgressEmitter(func(f float64, _ string) {
		mu.Lock()
		got = append(got, f)
		mu.Unlock()
	}, nil)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				e.emit(float64(i*8+w)/400, fmt.Sprint(i))
			}
		}(w)
	}
	wg.Wait()

	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i], got[i-1])
	}
}

func TestProgressReporter(t *testing.T) {
	r := &ProgressReporter{}
	_, _, ok := r.Get()
	assert.False(t, ok)

	r.Callback()(0.25, "quarter")
	f, status, ok := r.Get()
	assert.True(t, ok)
	assert.Equal(t, 0.25, f)
	assert.Equal(t, "quarter", status)

	phase := r.PhaseCallback(0.4, 0.3, "Phase 2/3")
	phase(0.5, "Building tree: 1/2")
	f, status, _ = r.Get()
	assert.InDelta(t, 0.55, f, 1e-9)
	assert.Equal(t, "Phase 2/3: Building tree: 1/2", status)

	phase(7, "done")
	f, _, _ = r.Get()
	assert.InDelta(t, 0.7, f, 1e-9)

	r.Reset()
	_, status, ok = r.Get()
	assert.False(t, ok)
	assert.Empty(t, status)
}

func TestScanErrorMatching(t *testing.T) {
	err := classifyError("/x", fmt.Errorf("open: %w", fs.ErrNotExist))
	assert.ErrorIs(t, err, ErrPathNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist, "the cause stays reachable")
	assert.NotErrorIs(t, err, ErrPermissionDenied)

	err = classifyError("/y", fs.ErrPermission)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = classifyError("/z", errors.New("device busy"))
	assert.ErrorIs(t, err, ErrIO)
	assert.Equal(t, "I/O error: /z: device busy", err.Error())

	already := cancelledError("/root")
	assert.Same(t, already, classifyError("/other", fmt.Errorf("wrapped: %w", already)))
	assert.Equal(t, "scan cancelled: /root", already.Error())

	assert.NoError(t, classifyError("/n", nil))
	assert.Equal(t, "not a directory", ErrNotADirectory.Error())
}
