package docs_server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/docs_server/dto"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/docs_server/handlers"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/config"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/jwt_service"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/middleware"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/toolkit"
)

// структура сервера шлюза документов
type DocsServer struct {
	httpServer *http.Server
	router     *gin.Engine
	config     *config.ServerConfig
	jwtConfig  *jwt_service.JWTConfig
	logger     *slog.Logger
	Handler    *handlers.DocsHandler
}

// Конструктор для сервера
func NewDocsServer(config *config.ServerConfig, jwtConfig *jwt_service.JWTConfig,
	handler *handlers.DocsHandler, logger *slog.Logger) (*DocsServer, error) {
	// создаём экземпляр роутера
	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	router.Use(gin.Recovery())
	// request id + access log
	router.Use(toolkit.RequestIDMiddleware(logger))
	// используем для всех маршрутов работу с CORS
	router.Use(toolkit.CORSMiddleware(config.AllowedOrigins))

	return &DocsServer{
		router:    router,
		config:    config,
		jwtConfig: jwtConfig,
		logger:    logger,
		Handler:   handler,
	}, nil
}

// Метод для маршрутизации сервера
func (s *DocsServer) SetUpRoutes() {
	s.router.GET("/healthz", s.Handler.Health)

	api := s.router.Group("/api")
	api.Use(middleware.AuthMiddleware(s.jwtConfig, s.logger))

	documents := api.Group("/documents")
	{
		documents.GET("", s.Handler.ListDocuments)
		documents.GET("/recent", s.Handler.RecentDocuments)
		documents.POST("", middleware.ValidateMiddleware(&dto.DocumentRequest{}), s.Handler.CreateDocument)
		documents.PUT("/:id", middleware.ValidateMiddleware(&dto.DocumentRequest{}), s.Handler.UpdateDocument)
		documents.DELETE("/:id", s.Handler.DeleteDocument)
	}

	folders := api.Group("/folders")
	{
		folders.GET("", s.Handler.ListFolders)
		folders.POST("", middleware.ValidateMiddleware(&dto.FolderRequest{}), s.Handler.CreateFolder)
		folders.DELETE("/:id", s.Handler.DeleteFolder)
	}

	search := api.Group("/search")
	{
		search.POST("", middleware.ValidateMiddleware(&dto.SearchRequest{}), s.Handler.Search)
		search.GET("/suggestions", s.Handler.Suggestions)

		// живые сессии: клиент шлёт ввод, поиск запускается после паузы набора
		search.POST("/sessions", s.Handler.CreateSession)
		search.PUT("/sessions/:id/query", middleware.ValidateMiddleware(&dto.SessionQueryRequest{}), s.Handler.SetSessionQuery)
		search.GET("/sessions/:id", s.Handler.GetSession)
		search.DELETE("/sessions/:id", s.Handler.DeleteSession)
	}

	api.GET("/cache/stats", s.Handler.CacheStats)
	api.DELETE("/cache", s.Handler.ClearCache)
}

// Router отдаёт gin роутер (маршруты должны быть уже настроены)
func (s *DocsServer) Router() http.Handler {
	return s.router
}

// Метод для запуска сервера
func (s *DocsServer) Run() error {
	s.SetUpRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.Addr(),
		Handler:        s.router,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	// если установлен флаг о том, что нужно использовать HTTPS, то запускаем сервер, который работает с HTTPS
	if s.config.EnableTLS {
		tlsConfig, err := s.config.CreateTLSConfig(s.logger)
		if err != nil {
			return fmt.Errorf("failed to create TLS config: %w", err)
		}

		s.httpServer.Addr = s.config.TLSAddr()
		s.httpServer.TLSConfig = tlsConfig

		s.logger.Info("starting HTTPS server", slog.String("addr", s.config.TLSAddr()))
		return s.httpServer.ListenAndServeTLS(s.config.TLSCertFile, s.config.TLSKeyFile)
	}

	s.logger.Info("starting HTTP server", slog.String("addr", s.config.Addr()))
	return s.httpServer.ListenAndServe()
}

// Метод для graceful shutdown
func (s *DocsServer) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	// Останавливаем HTTP сервер
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	s.logger.Info("server shutdown completed")
	return nil
}
