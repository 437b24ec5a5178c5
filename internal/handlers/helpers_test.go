package handlers_test

import (
	"Planzo/internal/config"
	"Planzo/internal/handlers"
	"Planzo/internal/middleware"
	"Planzo/internal/notify"
	"Planzo/internal/repo"
	"Planzo/internal/service"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

// newRouter собирает роутер: пользователи из переданного репозитория,
// планер поверх отдельной in-memory SQLite.
func newRouter(t *testing.T, ur repo.UserRepository, hub *notify.Hub) http.Handler {
	t.Helper()
	cfg := &config.Config{AuthSecret: testSecret}
	logger := zap.NewNop().Sugar()

	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if ur == nil {
		ur = repo.NewUserRepository(db)
	}
	userSvc := service.NewUserService(ur)
	var notifier service.Notifier
	if hub != nil {
		notifier = hub
	}
	plannerSvc := service.NewPlannerService(repo.NewColumnRepository(db), repo.NewItemRepository(db), notifier, logger)
	h := handlers.NewHandler(userSvc, plannerSvc, hub, logger, cfg)
	return h.Router
}

// do выполняет запрос от имени userID (0: анонимно) и возвращает ответ.
func do(t *testing.T, router http.Handler, method, path string, userID int64, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		addAuthCookie(t, req, userID, testSecret)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&v))
	return v
}

func addAuthCookie(t *testing.T, req *http.Request, userID int64, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_ = middleware.SetLoginCookie(rr, userID, secret)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}
