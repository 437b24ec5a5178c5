package handlers

import (
	"Planzo/internal/middleware"
	"Planzo/internal/notify"
	"Planzo/internal/planner"
	"Planzo/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PlannerHandler HTTP-обёртка над PlannerService.
type PlannerHandler struct {
	Service *service.PlannerService
	Hub     *notify.Hub
	Logger  *zap.SugaredLogger
}

func NewPlannerHandler(svc *service.PlannerService, hub *notify.Hub, logger *zap.SugaredLogger) *PlannerHandler {
	return &PlannerHandler{Service: svc, Hub: hub, Logger: logger}
}

// BoardColumn колонка вместе с карточками.
type BoardColumn struct {
	planner.Column
	Items []planner.Item `json:"items"`
}

// BoardResponse доска в порядке отображения.
type BoardResponse struct {
	Columns []BoardColumn `json:"columns"`
}

type orderRequest struct {
	Order *int `json:"order"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type savedRequest struct {
	Saved *bool `json:"saved"`
}

type calendarRequest struct {
	CalendarDate *time.Time `json:"calendar_date"`
}

// Board загружает доску на сервере. Пустой владелец получает колонки по умолчанию.
func (h *PlannerHandler) Board(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	b, err := h.Service.LoadBoard(r.Context(), userID)
	if err != nil {
		h.fail(w, "Board", userID, err)
		return
	}
	cols := b.Columns()
	resp := BoardResponse{Columns: make([]BoardColumn, 0, len(cols))}
	for _, c := range cols {
		resp.Columns = append(resp.Columns, BoardColumn{Column: c, Items: b.Items(c.ID)})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PlannerHandler) ListColumns(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	cols, err := h.Service.ListColumns(r.Context(), userID)
	if err != nil {
		h.fail(w, "ListColumns", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, cols)
}

func (h *PlannerHandler) CreateColumn(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	var req service.NewColumn
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	col, err := h.Service.CreateColumn(r.Context(), userID, req)
	if err != nil {
		h.fail(w, "CreateColumn", userID, err)
		return
	}
	writeJSON(w, http.StatusCreated, col)
}

func (h *PlannerHandler) UpdateColumnOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Order == nil {
		http.Error(w, "order is required", http.StatusBadRequest)
		return
	}
	if err := h.Service.UpdateColumnOrder(r.Context(), userID, chi.URLParam(r, "id"), *req.Order); err != nil {
		h.fail(w, "UpdateColumnOrder", userID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteColumn с ?reassign_to= переносит карточки и удаляет колонку в одной транзакции.
func (h *PlannerHandler) DeleteColumn(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")
	var err error
	if target := r.URL.Query().Get("reassign_to"); target != "" {
		err = h.Service.DeleteColumnReassign(r.Context(), userID, id, target)
	} else {
		err = h.Service.DeleteColumn(r.Context(), userID, id)
	}
	if err != nil {
		h.fail(w, "DeleteColumn", userID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListItems ?saved=true|false, без параметра отдаёт все.
func (h *PlannerHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	var saved *bool
	if raw := r.URL.Query().Get("saved"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "saved must be true or false", http.StatusBadRequest)
			return
		}
		saved = &v
	}
	items, err := h.Service.ListItems(r.Context(), userID, saved)
	if err != nil {
		h.fail(w, "ListItems", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *PlannerHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	var req service.NewItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	it, err := h.Service.CreateItem(r.Context(), userID, req)
	if err != nil {
		h.fail(w, "CreateItem", userID, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *PlannerHandler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Service.UpdateItemStatus(r.Context(), userID, chi.URLParam(r, "id"), req.Status); err != nil {
		h.fail(w, "UpdateItemStatus", userID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlannerHandler) UpdateItemSaved(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	var req savedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Saved == nil {
		http.Error(w, "saved is required", http.StatusBadRequest)
		return
	}
	if err := h.Service.UpdateItemSaved(r.Context(), userID, chi.URLParam(r, "id"), *req.Saved); err != nil {
		h.fail(w, "UpdateItemSaved", userID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ScheduleItem calendar_date=null снимает дату.
func (h *PlannerHandler) ScheduleItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	var req calendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Service.ScheduleItem(r.Context(), userID, chi.URLParam(r, "id"), req.CalendarDate); err != nil {
		h.fail(w, "ScheduleItem", userID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Watch websocket-лента изменений владельца.
func (h *PlannerHandler) Watch(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	if h.Hub == nil {
		http.Error(w, "live updates disabled", http.StatusNotImplemented)
		return
	}
	h.Hub.Serve(w, r, userID)
}

// fail маппит ошибку сервиса в HTTP-статус.
func (h *PlannerHandler) fail(w http.ResponseWriter, op string, userID int64, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, service.ErrPinnedColumn), errors.Is(err, planner.ErrPinnedColumn):
		http.Error(w, "the first column is pinned", http.StatusConflict)
	default:
		h.Logger.Errorw(op+": service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
