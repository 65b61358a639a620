// отложенный полнотекстовый поиск по документам с явным состоянием
package search_controller

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/docs_interfaces"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/domain/models"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/debounce"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/logging"
)

var (
	ErrClosed    = errors.New("search controller is closed")
	ErrNoBackend = errors.New("search controller has no listing backend")
)

// Controller хранит состояние одной поисковой строки: живой запрос, зафиксированный запрос и выдачу.
// каждый запуск поиска получает номер, писать выдачу может только последний
type Controller struct {
	mu sync.Mutex

	backend docs_interfaces.ListingBackend
	token   string
	opts    Options
	logger  *slog.Logger

	state     models.SearchState
	seq       uint64 // номер последнего запущенного поиска
	committed string // запрос последнего отложенного поиска, пока его выдача актуальна
	debouncer *debounce.Debouncer[string]

	subscribers map[int]chan models.SearchState
	nextSubID   int

	ctx    context.Context // живёт до Close, родитель отложенных поисков
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// конструктор контроллера. backend может быть nil, если задан opts.OnSearch,
// но тогда GetRecentDocuments недоступен
func New(backend docs_interfaces.ListingBackend, token string, opts Options) (*Controller, error) {
	if backend == nil && opts.OnSearch == nil {
		return nil, ErrNoBackend
	}
	if opts.MinQueryLength < 0 {
		opts.MinQueryLength = 0
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = 5
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		backend:     backend,
		token:       token,
		opts:        opts,
		logger:      logger,
		state:       initialState(),
		subscribers: make(map[int]chan models.SearchState),
		ctx:         ctx,
		cancel:      cancel,
	}
	if c.opts.OnSearch == nil {
		c.opts.OnSearch = c.searchBackend
	}
	c.debouncer = debounce.New(opts.DebounceDelay, c.commit)
	return c, nil
}

func initialState() models.SearchState {
	return models.SearchState{
		Results: []models.Item{},
		Status:  models.StatusIdle,
	}
}

// поиск по умолчанию: GET /documents?q= с токеном контроллера
func (c *Controller) searchBackend(ctx context.Context, query string) ([]models.Item, error) {
	return c.backend.SearchDocuments(ctx, c.token, models.DocumentQuery{Query: query})
}

// SetSearchQuery обновляет живой запрос сразу, фиксация запроса произойдёт после паузы ввода
func (c *Controller) SetSearchQuery(query string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Query = query
	c.notifyLocked()
	c.mu.Unlock()

	c.debouncer.Set(query)
}

// State возвращает копию текущего состояния
func (c *Controller) State() models.SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// фиксация запроса (колбэк дебаунсера)
func (c *Controller) commit(query string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	// ввод уже ушёл дальше: это опоздавший вызов дебаунсера, свежий придёт следом
	if query != c.state.Query {
		c.mu.Unlock()
		return
	}
	// тот же запрос уже найден или ищется: повторный поход в бэкенд не нужен
	if query == c.committed && c.meetsMinLength(query) {
		c.mu.Unlock()
		return
	}
	c.state.DebouncedQuery = query

	// короткий запрос: сбрасываем выдачу, а поиски в полёте больше не имеют права её писать
	if !c.meetsMinLength(query) {
		c.committed = ""
		c.seq++
		c.state.Results = []models.Item{}
		c.state.IsSearching = false
		c.state.Status = models.StatusIdle
		c.state.Error = ""
		c.notifyLocked()
		c.mu.Unlock()
		return
	}

	c.committed = query
	seq := c.startLocked()
	c.wg.Add(1)
	c.mu.Unlock()
	defer c.wg.Done()

	ctx, cancel := c.searchContext(c.ctx)
	defer cancel()

	results, err := c.opts.OnSearch(ctx, query)
	c.finish(seq, query, results, err)
}

func (c *Controller) meetsMinLength(query string) bool {
	trimmed := strings.TrimSpace(query)
	return trimmed != "" && utf8.RuneCountInString(trimmed) >= c.opts.MinQueryLength
}

// помечаем начало нового поиска, возвращаем его номер (мьютекс уже захвачен)
func (c *Controller) startLocked() uint64 {
	c.seq++
	c.state.IsSearching = true
	c.state.Status = models.StatusLoading
	c.state.Error = ""
	c.notifyLocked()
	return c.seq
}

// запись результата поиска. результат устаревшего поиска отбрасывается
func (c *Controller) finish(seq uint64, query string, results []models.Item, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if seq != c.seq {
		c.logger.Debug("stale search result discarded",
			slog.String("query", query),
			slog.Uint64("seq", seq),
			slog.Uint64("latest", c.seq),
		)
		return
	}

	c.state.IsSearching = false
	if err != nil {
		c.logger.Warn("search failed", slog.String("query", query), slog.String("error", err.Error()))
		// после ошибки тот же запрос можно повторить
		c.committed = ""
		c.state.Results = []models.Item{}
		c.state.Status = models.StatusError
		c.state.Error = err.Error()
	} else {
		if results == nil {
			results = []models.Item{}
		}
		c.state.Results = results
		c.state.Status = models.StatusSuccess
		c.state.Error = ""
	}
	c.notifyLocked()
}

func (c *Controller) searchContext(parent context.Context) (context.Context, context.CancelFunc) {
	if c.opts.SearchTimeout > 0 {
		return context.WithTimeout(parent, c.opts.SearchTimeout)
	}
	return context.WithCancel(parent)
}

// SearchWithFilters - немедленный поиск с фильтрами. mimeType, folderId и status уходят в бэкенд,
// диапазон дат применяется локально. кривой диапазон отклоняется до похода в бэкенд.
// результат возвращается сразу и попадает в общее состояние
func (c *Controller) SearchWithFilters(ctx context.Context, query string, filter models.Filter) ([]models.Item, error) {
	if filter.DateRange != nil {
		if _, _, err := filter.DateRange.Bounds(); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.state.DebouncedQuery = query
	// выдача с фильтрами не годится как ответ на отложенный поиск того же текста
	c.committed = ""
	seq := c.startLocked()
	c.mu.Unlock()

	ctx, cancel := c.searchContext(ctx)
	defer cancel()

	results, err := c.fetchFiltered(ctx, query, filter)
	if err == nil && filter.DateRange != nil {
		results, err = FilterByDateRange(results, *filter.DateRange)
	}

	c.finish(seq, query, results, err)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []models.Item{}
	}
	return results, nil
}

func (c *Controller) fetchFiltered(ctx context.Context, query string, filter models.Filter) ([]models.Item, error) {
	if c.backend == nil {
		items, err := c.opts.OnSearch(ctx, query)
		if err != nil {
			return nil, err
		}
		return filterLocally(items, filter), nil
	}
	return c.backend.SearchDocuments(ctx, c.token, models.DocumentQuery{
		Query:    query,
		FolderID: filter.FolderID,
		MimeType: filter.MimeType,
		Status:   filter.Status,
	})
}

// GetSuggestions - автодополнение поверх полнотекстового поиска, состояние не меняет
func (c *Controller) GetSuggestions(ctx context.Context, query string) ([]string, error) {
	if !c.meetsMinLength(query) {
		return []string{}, nil
	}

	ctx, cancel := c.searchContext(ctx)
	defer cancel()

	items, err := c.opts.OnSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	return suggestionNames(items, strings.TrimSpace(query), c.opts.MaxSuggestions), nil
}

// ClearSearchResults сбрасывает запрос и выдачу, отложенный и летящий поиски отменяются
func (c *Controller) ClearSearchResults() {
	c.debouncer.Cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.seq++
	c.committed = ""
	c.state = initialState()
	c.notifyLocked()
}

// GetRecentDocuments - разовый запрос последних документов без дебаунса
func (c *Controller) GetRecentDocuments(ctx context.Context, limit int) ([]models.Item, error) {
	if c.backend == nil {
		return nil, ErrNoBackend
	}

	ctx, cancel := c.searchContext(ctx)
	defer cancel()

	return c.backend.SearchDocuments(ctx, c.token, models.DocumentQuery{Recent: true, Limit: limit})
}

// Subscribe возвращает канал снимков состояния и функцию отписки.
// в канале всегда лежит только самый свежий снимок, медленный читатель пропускает промежуточные
func (c *Controller) Subscribe() (<-chan models.SearchState, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan models.SearchState, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = ch
	ch <- c.snapshotLocked()

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subscribers[id]; ok {
			delete(c.subscribers, id)
			close(sub)
		}
	}
}

// рассылка снимка подписчикам (мьютекс уже захвачен)
func (c *Controller) notifyLocked() {
	if len(c.subscribers) == 0 {
		return
	}
	snapshot := c.snapshotLocked()
	for _, ch := range c.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}

func (c *Controller) snapshotLocked() models.SearchState {
	snapshot := c.state
	snapshot.Results = append([]models.Item(nil), c.state.Results...)
	if snapshot.Results == nil {
		snapshot.Results = []models.Item{}
	}
	return snapshot
}

// Close останавливает таймер, отменяет поиски в полёте, закрывает каналы подписчиков и ждёт
// завершения отложенных поисков. повторный вызов безопасен
func (c *Controller) Close() {
	c.debouncer.Stop()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancel()
	for id, ch := range c.subscribers {
		close(ch)
		delete(c.subscribers, id)
	}
	c.mu.Unlock()

	c.wg.Wait()
}
