package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	fsrepo "Planzo/internal/cli/repo/fs"
)

// ErrUnauthorized сервер не принял токен: нужно залогиниться заново.
var ErrUnauthorized = errors.New("not logged in or session expired, run login")

// StatusError неожиданный HTTP-статус от сервера.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server status %d", e.Code)
	}
	return fmt.Sprintf("server status %d: %s", e.Code, e.Body)
}

var httpClient = &http.Client{Timeout: 15 * time.Second}

// DoJSON отправляет запрос с JSON-телом (payload=nil: без тела).
// Если token не пустой, он передаётся как auth cookie.
func DoJSON(ctx context.Context, method, url string, payload any, token string) (*http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Cookie", "auth_token="+token)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	return resp, respBody, nil
}

// PersistAuthFromResponse извлекает auth cookie из ответа и сохраняет его через файловое хранилище.
func PersistAuthFromResponse(resp *http.Response) error {
	store := fsrepo.AuthFSStore{}
	for _, c := range resp.Cookies() {
		if c.Name == "auth_token" && c.Value != "" {
			return store.Save(c.Value)
		}
	}
	return fmt.Errorf("no auth cookie in response")
}

// checkStatus превращает не-2xx ответ в ошибку.
func checkStatus(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
