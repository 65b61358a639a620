package listing_backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bmv-luizpaulo/BMV-Docs-sub000/internal/domain/models"
)

// общая часть ответов бэкенда
type envelope interface {
	ok() (bool, string)
}

type documentsEnvelope struct{ models.DocumentsResponse }

func (e *documentsEnvelope) ok() (bool, string) { return e.Success, e.Error }

type foldersEnvelope struct{ models.FoldersResponse }

func (e *foldersEnvelope) ok() (bool, string) { return e.Success, e.Error }

// SearchDocuments - GET /documents с параметрами запроса
func (c *Client) SearchDocuments(ctx context.Context, token string, query models.DocumentQuery) ([]models.Item, error) {
	var resp documentsEnvelope
	if err := c.call(ctx, http.MethodGet, "/documents", token, documentParams(query), nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Documents), nil
}

// ListFolders - GET /folders?parentId=
func (c *Client) ListFolders(ctx context.Context, token, parentID string) ([]models.Item, error) {
	params := url.Values{}
	if parentID != "" {
		params.Set("parentId", parentID)
	}

	var resp foldersEnvelope
	if err := c.call(ctx, http.MethodGet, "/folders", token, params, nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Folders), nil
}

func (c *Client) CreateDocument(ctx context.Context, token string, input models.DocumentInput) (models.Item, error) {
	var resp documentsEnvelope
	if err := c.call(ctx, http.MethodPost, "/documents", token, nil, input, &resp); err != nil {
		return models.Item{}, err
	}
	return itemOrZero(resp.Document), nil
}

func (c *Client) UpdateDocument(ctx context.Context, token, id string, input models.DocumentInput) (models.Item, error) {
	var resp documentsEnvelope
	if err := c.call(ctx, http.MethodPut, "/documents/"+url.PathEscape(id), token, nil, input, &resp); err != nil {
		return models.Item{}, err
	}
	return itemOrZero(resp.Document), nil
}

func (c *Client) DeleteDocument(ctx context.Context, token, id string) error {
	var resp documentsEnvelope
	return c.call(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), token, nil, nil, &resp)
}

func (c *Client) CreateFolder(ctx context.Context, token string, input models.FolderInput) (models.Item, error) {
	var resp foldersEnvelope
	if err := c.call(ctx, http.MethodPost, "/folders", token, nil, input, &resp); err != nil {
		return models.Item{}, err
	}
	return itemOrZero(resp.Folder), nil
}

func (c *Client) DeleteFolder(ctx context.Context, token, id string) error {
	var resp foldersEnvelope
	return c.call(ctx, http.MethodDelete, "/folders/"+url.PathEscape(id), token, nil, nil, &resp)
}

// параметры листинга документов в том виде, в каком их ждёт бэкенд
func documentParams(query models.DocumentQuery) url.Values {
	params := url.Values{}
	if query.FolderID != "" {
		params.Set("folderId", query.FolderID)
	}
	if query.MimeType != "" {
		params.Set("mimeType", query.MimeType)
	}
	if query.Query != "" {
		params.Set("q", query.Query)
	}
	if query.Status != "" {
		params.Set("status", query.Status)
	}
	if query.Recent {
		params.Set("recent", "true")
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	return params
}

// общий метод обращения к бэкенду: семафор, rate limiter и circuit breaker вокруг http запроса.
// success:false не считается сбоем бэкенда и не открывает circuit breaker
func (c *Client) call(ctx context.Context, method, path, token string, params url.Values, body interface{}, out envelope) error {
	apiURL := c.baseURL + path
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request failed: %w", err)
		}
	}

	var status int
	err := c.circuitBreaker.Execute(func() error {
		if err := c.acquireSemaphore(ctx); err != nil {
			return err
		}
		defer c.releaseSemaphore()

		// Перед осуществлением запроса проверяем rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}

		c.logger.Debug("listing backend request", slog.String("method", method), slog.String("url", apiURL))

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		resp, err := c.executeRequest(ctx, method, apiURL, token, reader)
		if err != nil {
			return err
		}
		defer c.drainAndClose(resp)

		if err := c.checkResponseStatus(resp); err != nil {
			return err
		}

		status = resp.StatusCode
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			if status >= http.StatusBadRequest {
				return nil
			}
			return fmt.Errorf("decode response failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return c.handleCircuitBreakerError(err)
	}

	if success, message := out.ok(); !success || status >= http.StatusBadRequest {
		if message == "" && status >= http.StatusBadRequest {
			message = http.StatusText(status)
		}
		return &BackendError{Status: status, Message: message}
	}
	return nil
}

func nonNil(items []models.Item) []models.Item {
	if items == nil {
		return []models.Item{}
	}
	return items
}

func itemOrZero(item *models.Item) models.Item {
	if item == nil {
		return models.Item{}
	}
	return *item
}
