package commands

import (
	"Planzo/internal/config"
	"Planzo/internal/handlers"
	"Planzo/internal/notify"
	"Planzo/internal/repo"
	"Planzo/internal/service"
	"bytes"
	"context"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы артефакты (токен/логин) создавались в temp.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

// syncBuffer: Out, в который можно писать из нескольких горутин.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// captureOut перенаправляет Out в буфер до конца теста.
func captureOut(t *testing.T) *syncBuffer {
	t.Helper()
	old := Out
	buf := &syncBuffer{}
	Out = buf
	t.Cleanup(func() { Out = old })
	return buf
}

// answer подставляет ответ на вопрос подтверждения.
func answer(t *testing.T, s string) {
	t.Helper()
	old := In
	In = strings.NewReader(s)
	t.Cleanup(func() { In = old })
}

// newServer поднимает настоящий сервер поверх in-memory SQLite.
func newServer(t *testing.T) (*config.Config, *notify.Hub) {
	t.Helper()
	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	logger := zap.NewNop().Sugar()
	hub := notify.NewHub(logger, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	plannerSvc := service.NewPlannerService(repo.NewColumnRepository(db), repo.NewItemRepository(db), hub, logger)
	h := handlers.NewHandler(service.NewUserService(repo.NewUserRepository(db)), plannerSvc, hub, logger, &config.Config{AuthSecret: "s"})
	srv := httptest.NewServer(h.Router)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &config.Config{ServerURL: srv.URL}, hub
}

// loggedIn сервер и зарегистрированный пользователь с сохранённым токеном.
func loggedIn(t *testing.T) (*config.Config, *notify.Hub) {
	t.Helper()
	withTempConfig(t)
	cfg, hub := newServer(t)
	captureOut(t)
	require.NoError(t, registerCmd{}.Run(context.Background(), cfg, []string{"maker", "pw"}))
	return cfg, hub
}
