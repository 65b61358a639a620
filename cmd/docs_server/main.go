package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/configs"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/core"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/docs_server"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/domain/models"
	"github.com/bmv-luizpaulo/BMV-Docs-sub000/shared/jwt_service"
)

var version = "dev"

// куда команды пишут результат (подменяется в тестах)
var stdout io.Writer = os.Stdout

// CLI - команды сервиса документов
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Env     string           `help:"Path to .env file." default:".env" type:"path"`

	Serve  ServeCmd  `cmd:"" default:"1" help:"Run the documents gateway HTTP server."`
	Search SearchCmd `cmd:"" help:"Run a one-shot filtered search and print results as JSON."`
	Token  TokenCmd  `cmd:"" help:"Issue an access token signed with JWT_ACCESS_SECRET."`
}

// ServeCmd запускает http сервер шлюза
type ServeCmd struct {
	ShutdownTimeout time.Duration `help:"Graceful shutdown timeout." default:"30s"`
}

func (s *ServeCmd) Run(cli *CLI) error {
	// Создаем корневой контекст
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализируем общие зависимости
	deps, err := core.InitDependencies(ctx, cli.Env)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	logger := deps.Logger

	// Создаем HTTP-сервер
	server, err := docs_server.NewDocsServer(deps.Config.ServerConf, deps.Config.JWT, deps.DocsHandler, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// создаём канал, который будет реагировать на системные сигналы
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидание сигнала или падения сервера
	select {
	case sig := <-sigChan:
		logger.Info("shutting down docs server", slog.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server failed", slog.String("error", err.Error()))
		deps.DocsHandler.ShutDown(ctx)
		deps.Backend.Close()
		return err
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, s.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", slog.String("error", err.Error()))
	}

	// Остановка сервисов
	server.Handler.ShutDown(shutdownCtx)
	deps.Backend.Close()

	logger.Info("docs server stopped")
	return nil
}

// SearchCmd - разовый поиск с фильтрами, удобно для проверки бэкенда из консоли
type SearchCmd struct {
	Query    string        `arg:"" optional:"" help:"Search text."`
	MimeType string        `help:"Filter by MIME type." name:"mime"`
	Folder   string        `help:"Filter by parent folder id."`
	Status   string        `help:"Filter by document status."`
	Start    string        `help:"Modified time lower bound (inclusive), e.g. 2024-01-01."`
	End      string        `help:"Modified time upper bound (inclusive)."`
	Token    string        `help:"Bearer token forwarded to the listing backend." env:"DOCS_TOKEN"`
	Timeout  time.Duration `help:"Search timeout." default:"15s"`
}

// Filter собирает фильтр из флагов. диапазон задаётся только обеими границами
func (s *SearchCmd) Filter() (models.Filter, error) {
	filter := models.Filter{
		MimeType: s.MimeType,
		FolderID: s.Folder,
		Status:   s.Status,
	}
	switch {
	case s.Start != "" && s.End != "":
		filter.DateRange = &models.DateRange{Start: s.Start, End: s.End}
	case s.Start != "" || s.End != "":
		return models.Filter{}, fmt.Errorf("%w: both --start and --end are required", models.ErrInvalidDateRange)
	}
	return filter, nil
}

func (s *SearchCmd) Run(cli *CLI) error {
	filter, err := s.Filter()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, s.Timeout)
	defer timeoutCancel()

	deps, err := core.InitDependencies(ctx, cli.Env)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		deps.DocsService.StopServices(context.Background())
		deps.Backend.Close()
	}()

	items, err := deps.DocsService.Search(ctx, s.Token, s.Query, filter)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(items)
}

// TokenCmd выпускает access токен для локальной проверки авторизации
type TokenCmd struct {
	UserID string `arg:"" help:"User id for the sub claim."`
	Email  string `help:"User email." default:""`
}

func (t *TokenCmd) Run(cli *CLI) error {
	cfg, err := configs.LoadConfig(cli.Env)
	if err != nil {
		return err
	}
	if !cfg.JWT.Enabled {
		return fmt.Errorf("token verification is disabled: set %s", jwt_service.EnvAccessSecret)
	}

	token, err := jwt_service.NewJWTService(cfg.JWT).GenerateAccessToken(t.UserID, t.Email)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, token)
	return err
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("docs_server"),
		kong.Description("Documents gateway: cached listings and debounced search over the listing backend."),
		kong.Vars{"version": version},
		kong.Bind(&cli),
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
