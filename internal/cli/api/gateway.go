package api

import (
	"Planzo/internal/planner"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPGateway ходит в REST API сервера. Реализует planner.Gateway и
// planner.ColumnReassigner; владелец определяется сервером по токену.
type HTTPGateway struct {
	baseURL string
	token   string
}

var (
	_ planner.Gateway          = (*HTTPGateway)(nil)
	_ planner.ColumnReassigner = (*HTTPGateway)(nil)
)

func NewHTTPGateway(baseURL, token string) *HTTPGateway {
	return &HTTPGateway{baseURL: strings.TrimRight(baseURL, "/"), token: token}
}

// Me текущий пользователь.
type Me struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// NewItem тело POST /api/items.
type NewItem struct {
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status,omitempty"`
	CalendarDate *time.Time `json:"calendar_date,omitempty"`
}

func (g *HTTPGateway) call(ctx context.Context, method, path string, payload, out any) error {
	resp, body, err := DoJSON(ctx, method, g.baseURL+path, payload, g.token)
	if err != nil {
		return err
	}
	if err := checkStatus(resp, body); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// ListColumns owner игнорируется: сервер берёт его из токена.
func (g *HTTPGateway) ListColumns(ctx context.Context, _ int64) ([]planner.Column, error) {
	var cols []planner.Column
	if err := g.call(ctx, http.MethodGet, "/api/columns", nil, &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

func (g *HTTPGateway) InsertColumn(ctx context.Context, c planner.Column) (planner.Column, error) {
	payload := map[string]any{"id": c.ID, "title": c.Title, "order": c.Order}
	var saved planner.Column
	if err := g.call(ctx, http.MethodPost, "/api/columns", payload, &saved); err != nil {
		return planner.Column{}, err
	}
	return saved, nil
}

func (g *HTTPGateway) UpdateColumnOrder(ctx context.Context, id string, order int) error {
	return g.call(ctx, http.MethodPatch, "/api/columns/"+url.PathEscape(id)+"/order", map[string]int{"order": order}, nil)
}

func (g *HTTPGateway) DeleteColumn(ctx context.Context, id string) error {
	return g.call(ctx, http.MethodDelete, "/api/columns/"+url.PathEscape(id), nil, nil)
}

func (g *HTTPGateway) ReassignAndDeleteColumn(ctx context.Context, id, targetID string) error {
	path := "/api/columns/" + url.PathEscape(id) + "?reassign_to=" + url.QueryEscape(targetID)
	return g.call(ctx, http.MethodDelete, path, nil, nil)
}

func (g *HTTPGateway) ListItems(ctx context.Context, _ int64, f planner.ItemFilter) ([]planner.Item, error) {
	var items []planner.Item
	path := fmt.Sprintf("/api/items?saved=%t", f.Saved)
	if err := g.call(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (g *HTTPGateway) UpdateItemStatus(ctx context.Context, id, status string) error {
	return g.call(ctx, http.MethodPatch, "/api/items/"+url.PathEscape(id)+"/status", map[string]string{"status": status}, nil)
}

func (g *HTTPGateway) UpdateItemSaved(ctx context.Context, id string, saved bool) error {
	return g.call(ctx, http.MethodPatch, "/api/items/"+url.PathEscape(id)+"/saved", map[string]bool{"saved": saved}, nil)
}

// CreateItem новая идея. Пустой Status кладёт её в первую колонку.
func (g *HTTPGateway) CreateItem(ctx context.Context, in NewItem) (planner.Item, error) {
	var it planner.Item
	if err := g.call(ctx, http.MethodPost, "/api/items", in, &it); err != nil {
		return planner.Item{}, err
	}
	return it, nil
}

// ScheduleItem date=nil снимает дату публикации.
func (g *HTTPGateway) ScheduleItem(ctx context.Context, id string, date *time.Time) error {
	return g.call(ctx, http.MethodPatch, "/api/items/"+url.PathEscape(id)+"/calendar", map[string]*time.Time{"calendar_date": date}, nil)
}

func (g *HTTPGateway) Me(ctx context.Context) (Me, error) {
	var me Me
	err := g.call(ctx, http.MethodGet, "/api/user/me", nil, &me)
	return me, err
}

func (g *HTTPGateway) Logout(ctx context.Context) error {
	return g.call(ctx, http.MethodPost, "/api/user/logout", nil, nil)
}
