package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route_planner/internal/geocoding"
	"route_planner/internal/mapview"
	"route_planner/internal/middleware"
	"route_planner/internal/models"
	"route_planner/internal/planner"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tableGeocoder map[string]geocoding.Result

func (g tableGeocoder) Lookup(ctx context.Context, query string) (*geocoding.Result, error) {
	if r, ok := g[query]; ok {
		return &r, nil
	}
	return nil, nil
}

type memoryStore struct {
	mu   sync.Mutex
	blob []byte
}

func (m *memoryStore) Save(ctx context.Context, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = blob
	return nil
}

func (m *memoryStore) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blob, nil
}

var cities = tableGeocoder{
	"West":   {Lat: 40, Lng: -100, Label: "West, USA"},
	"East":   {Lat: 40, Lng: -90, Label: "East, USA"},
	"Middle": {Lat: 40, Lng: -95, Label: "Middle, USA"},
}

type server struct {
	router  *gin.Engine
	planner *planner.Planner
	hub     *mapview.Hub
}

func newServer(t *testing.T, secret string) *server {
	t.Helper()
	hub := mapview.NewHub()
	p := planner.New(planner.Options{
		Geocoder:    cities,
		Persistence: &memoryStore{},
		Sink:        hub,
		Now:         func() time.Time { return time.UnixMilli(1714564800000) },
	})
	t.Cleanup(func() {
		p.Close()
		hub.Close()
	})
	return &server{
		router:  SetupRouter(Deps{Planner: p, Hub: hub, JWTSecret: secret}),
		planner: p,
		hub:     hub,
	}
}

func (s *server) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *server) settle(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		if s.planner.Pending() != 0 {
			return false
		}
		for _, st := range s.planner.Stops() {
			if !st.ValidationStatus.Terminal() {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func stopNames(stops []models.Stop) []string {
	out := make([]string, len(stops))
	for i, s := range stops {
		out[i] = s.Name
	}
	return out
}

func TestStops_AddListRemove(t *testing.T) {
	s := newServer(t, "")

	w := s.do(t, http.MethodPost, "/stops", gin.H{"name": "  ", "notes": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/stops", gin.H{"name": "West", "notes": "dock 4"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct{ Stop models.Stop }
	decode(t, w, &created)
	assert.Equal(t, "West", created.Stop.Name)
	assert.Equal(t, models.StatusValidating, created.Stop.ValidationStatus)
	s.settle(t)

	w = s.do(t, http.MethodGet, "/stops", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Stops   []models.Stop
		Summary map[string]interface{}
	}
	decode(t, w, &listed)
	require.Len(t, listed.Stops, 1)
	assert.Equal(t, models.StatusValid, listed.Stops[0].ValidationStatus)
	assert.Equal(t, "0.0 miles", listed.Summary["totalDistanceLabel"])

	w = s.do(t, http.MethodDelete, "/stops/"+created.Stop.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.planner.Stops())
}

func TestStops_MoveReorderAndErrors(t *testing.T) {
	s := newServer(t, "")
	for _, n := range []string{"A", "B", "C"} {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/stops", gin.H{"name": n}).Code)
	}
	s.settle(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/stops/move-down/0", nil).Code)
	assert.Equal(t, []string{"B", "A", "C"}, stopNames(s.planner.Stops()))
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/stops/move-up/0", nil).Code)
	assert.Equal(t, []string{"B", "A", "C"}, stopNames(s.planner.Stops()))

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/stops/move-up/9", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/stops/move-up/first", nil).Code)

	stops := s.planner.Stops()
	ids := []string{stops[2].ID, stops[1].ID, stops[0].ID}
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/stops/order", gin.H{"ids": ids}).Code)
	assert.Equal(t, []string{"C", "A", "B"}, stopNames(s.planner.Stops()))

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, "/stops/order", gin.H{"ids": []string{"nope"}}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/stops/nope/validate", nil).Code)
	assert.Equal(t, http.StatusAccepted, s.do(t, http.MethodPost, "/stops/"+ids[0]+"/validate", nil).Code)
	s.settle(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/stops", nil).Code)
	assert.Empty(t, s.planner.Stops())
}

func TestRoute_OptimizeSummaryExport(t *testing.T) {
	s := newServer(t, "")

	assert.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodPost, "/route/optimize", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodGet, "/route/export", nil).Code)

	for _, n := range []string{"West", "Nowhere", "East", "Middle"} {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/stops", gin.H{"name": n}).Code)
	}

	w := s.do(t, http.MethodPost, "/route/optimize", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var optimized struct {
		Message string
		Stops   []models.Stop
	}
	decode(t, w, &optimized)
	assert.Equal(t, "Route optimized! 3 stops reordered for shortest distance.", optimized.Message)
	assert.Equal(t, []string{"West", "Middle", "East", "Nowhere"}, stopNames(optimized.Stops))

	w = s.do(t, http.MethodGet, "/route/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary map[string]interface{}
	decode(t, w, &summary)
	assert.EqualValues(t, 4, summary["stopCount"])
	assert.Contains(t, summary["totalDistanceLabel"], " miles")

	w = s.do(t, http.MethodGet, "/route/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="route-1714564800000.json"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "{\n  \"stops\": [\n    {\n      \"order\": 1,"))
	var doc models.RouteExport
	decode(t, w, &doc)
	require.Len(t, doc.Stops, 4)
	assert.Nil(t, doc.Stops[3].Coordinates)
	assert.Equal(t, 4, doc.Stops[3].Order)
}

func TestRoute_MapGeoJSON(t *testing.T) {
	s := newServer(t, "")
	for _, n := range []string{"West", "East"} {
		s.do(t, http.MethodPost, "/stops", gin.H{"name": n})
	}
	s.settle(t)

	w := s.do(t, http.MethodGet, "/route/map", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/geo+json", w.Header().Get("Content-Type"))

	var fc struct {
		Type     string
		Features []struct {
			Geometry struct{ Type string }
		}
	}
	decode(t, w, &fc)
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 3)
	assert.Equal(t, "LineString", fc.Features[2].Geometry.Type)
}

func TestAuthGuard(t *testing.T) {
	s := newServer(t, "s3cret")

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/stops", nil).Code)

	token, err := middleware.GenerateToken("tester", "s3cret", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/stops", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMapWebSocket(t *testing.T) {
	s := newServer(t, "s3cret")
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	token, err := middleware.GenerateToken("map-page", "s3cret", time.Hour)
	require.NoError(t, err)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/map?token=" + token

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.hub.ViewerCount() == 1 }, time.Second, 5*time.Millisecond)

	_, err = s.planner.AddStop("West", "")
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var view models.MapView
		require.NoError(t, conn.ReadJSON(&view))
		if len(view.Markers) == 1 {
			assert.Equal(t, "Stop 1: West", view.Markers[0].Label)
			break
		}
	}
}
