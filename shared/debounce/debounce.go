// отложенное применение быстро меняющегося значения
package debounce

import (
	"sync"
	"time"
)

// Debouncer передаёт в колбэк последнее значение, только когда оно не менялось delay
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	fire    func(T)
	timer   *time.Timer
	gen     uint64 // поколение: сработавший таймер сверяет его с текущим
	stopped bool
}

// конструктор. Отрицательная задержка приводится к нулю
func New[T any](delay time.Duration, fire func(T)) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{
		delay: delay,
		fire:  fire,
	}
}

// метод установки нового значения: отменяет ожидающий таймер и запускает новый.
// колбэк никогда не вызывается синхронно внутри Set, даже при нулевой задержке.
// колбэки не сериализуются: Set во время работы колбэка запустит следующий параллельно,
// и более старое значение может дойти до колбэка позже нового. колбэк сам отсекает устаревшее
func (d *Debouncer[T]) Set(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// таймер мог сработать одновременно с новым Set или Stop
		if d.stopped || gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		// с этого места новый Set уже не отменит вызов
		d.fire(value)
	})
}

// Pending сообщает, есть ли значение, ожидающее применения
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel отменяет ожидающее значение, дебаунсер остаётся рабочим
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// метод остановки: ожидающий таймер отменяется, последующие Set игнорируются
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
