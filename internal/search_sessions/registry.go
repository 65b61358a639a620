// реестр живых поисковых сессий: по контроллеру отложенного поиска на клиента
package search_sessions

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/search_controller"
)

var ErrSessionNotFound = errors.New("search session not found")

// ControllerFactory создаёт контроллер для сессии с токеном её владельца
type ControllerFactory func(token string) (*search_controller.Controller, error)

// Session - одна поисковая строка клиента
type Session struct {
	ID         string
	Controller *search_controller.Controller
	CreatedAt  time.Time
	token      string
}

// Registry держит ограниченное число сессий, самая давно не использованная вытесняется и закрывается
type Registry struct {
	sessions      *lru.Cache[string, *Session]
	newController ControllerFactory
	logger        *slog.Logger
}

// конструктор реестра на size сессий
func NewRegistry(size int, factory ControllerFactory, logger *slog.Logger) (*Registry, error) {
	r := &Registry{
		newController: factory,
		logger:        logger,
	}

	sessions, err := lru.NewWithEvict[string, *Session](size, r.onEvict)
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	r.sessions = sessions
	return r, nil
}

// колбэк вытеснения: и при переполнении, и при явном удалении
func (r *Registry) onEvict(id string, session *Session) {
	session.Controller.Close()
	r.logger.Debug("search session closed", slog.String("session_id", id))
}

// Create открывает новую сессию для владельца токена
func (r *Registry) Create(token string) (*Session, error) {
	controller, err := r.newController(token)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:         uuid.NewString(),
		Controller: controller,
		CreatedAt:  time.Now(),
		token:      token,
	}
	if evicted := r.sessions.Add(session.ID, session); evicted {
		r.logger.Info("search session registry is full, oldest session evicted")
	}
	return session, nil
}

// Get возвращает сессию, если она существует и принадлежит владельцу токена.
// чужая сессия неотличима от отсутствующей
func (r *Registry) Get(id, token string) (*Session, error) {
	session, ok := r.sessions.Get(id)
	if !ok || subtle.ConstantTimeCompare([]byte(session.token), []byte(token)) != 1 {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete закрывает и удаляет сессию владельца
func (r *Registry) Delete(id, token string) error {
	if _, err := r.Get(id, token); err != nil {
		return err
	}
	r.sessions.Remove(id)
	return nil
}

// Len - число живых сессий
func (r *Registry) Len() int {
	return r.sessions.Len()
}

// Close закрывает все сессии (при остановке сервера)
func (r *Registry) Close() {
	r.sessions.Purge()
}
