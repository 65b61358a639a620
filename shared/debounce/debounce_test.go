package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// накопитель значений, которые дошли до колбэка
type recorder struct {
	mu     sync.Mutex
	values []string
	fired  chan string
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan string, 16)}
}

func (r *recorder) fire(v string) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
	r.fired <- v
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func TestDebouncerCoalesces(t *testing.T) {
	rec := newRecorder()
	d := New(50*time.Millisecond, rec.fire)
	defer d.Stop()

	d.Set("a")
	d.Set("ab")
	d.Set("abc")

	select {
	case v := <-rec.fired:
		assert.Equal(t, "abc", v)
	case <-time.After(time.Second):
		t.Fatal("debounced value was not delivered")
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"abc"}, rec.snapshot())
}

func TestDebouncerResetsTimer(t *testing.T) {
	rec := newRecorder()
	d := New(60*time.Millisecond, rec.fire)
	defer d.Stop()

	d.Set("a")
	time.Sleep(30 * time.Millisecond)
	d.Set("ab")
	time.Sleep(40 * time.Millisecond)

	// с момента первого Set прошло больше задержки, но таймер был сброшен
	assert.Empty(t, rec.snapshot())
	assert.True(t, d.Pending())

	select {
	case v := <-rec.fired:
		assert.Equal(t, "ab", v)
	case <-time.After(time.Second):
		t.Fatal("debounced value was not delivered")
	}
	assert.False(t, d.Pending())
}

func TestDebouncerZeroDelayIsAsync(t *testing.T) {
	rec := newRecorder()
	d := New(0, rec.fire)
	defer d.Stop()

	d.Set("now")
	// внутри Set колбэк не вызывается
	assert.Empty(t, rec.snapshot())

	select {
	case v := <-rec.fired:
		assert.Equal(t, "now", v)
	case <-time.After(time.Second):
		t.Fatal("zero-delay value was not delivered")
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	rec := newRecorder()
	d := New(30*time.Millisecond, rec.fire)

	d.Set("lost")
	d.Stop()
	d.Set("ignored")

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
	assert.False(t, d.Pending())
}

func TestDebouncerSequentialWindows(t *testing.T) {
	rec := newRecorder()
	d := New(20*time.Millisecond, rec.fire)
	defer d.Stop()

	d.Set("first")
	require.Equal(t, "first", <-rec.fired)
	d.Set("second")
	require.Equal(t, "second", <-rec.fired)

	assert.Equal(t, []string{"first", "second"}, rec.snapshot())
}

func TestDebouncerCancelKeepsWorking(t *testing.T) {
	rec := newRecorder()
	d := New(30*time.Millisecond, rec.fire)
	defer d.Stop()

	d.Set("dropped")
	d.Cancel()
	assert.False(t, d.Pending())

	d.Set("kept")
	select {
	case v := <-rec.fired:
		assert.Equal(t, "kept", v)
	case <-time.After(time.Second):
		t.Fatal("value after Cancel was not delivered")
	}

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"kept"}, rec.snapshot())
}

func TestDebouncerSetDuringFireStartsNextFire(t *testing.T) {
	release := make(chan struct{})
	started := make(chan string, 4)
	d := New(0, func(v string) {
		started <- v
		if v == "a" {
			<-release
		}
	})
	defer d.Stop()

	d.Set("a")
	require.Equal(t, "a", <-started)

	// первый колбэк ещё работает, второй не ждёт его завершения
	d.Set("b")
	select {
	case v := <-started:
		assert.Equal(t, "b", v)
	case <-time.After(time.Second):
		t.Fatal("second value waited for the running callback")
	}
	close(release)
}
