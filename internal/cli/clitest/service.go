// Package clitest provides an in-memory stand-in for the diet-tracking service
// and a ready-wired command context for tests.
package clitest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/julianstephens/platewise/internal/cli"
	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/models"
	"github.com/julianstephens/platewise/internal/storage"
)

// Service fakes the remote API. Tests may set exported fields directly while no
// request is in flight; handlers take Mu themselves.
type Service struct {
	Mu sync.Mutex

	User     models.User
	Password string
	Token    string

	Foods     []models.FoodItem
	Units     []models.QuantityUnit
	MealTypes []string
	Logs      []models.LoggedEntry

	// FailLogs makes GET /logged-meals answer success:false
	FailLogs bool
	// FailBulk makes POST /logged-meals/bulk answer success:false
	FailBulk bool

	BulkRequests []models.BulkLogRequest
	LogFetches   int

	server *httptest.Server
	nextID int
}

// NewService starts a service seeded with one user, two units and three foods
func NewService(t *testing.T) *Service {
	t.Helper()
	s := &Service{
		User:      models.User{ID: "usr1", Email: "sam@example.com", Name: "Sam"},
		Password:  "hunter2",
		Token:     "tok-usr1",
		MealTypes: []string{"breakfast", "lunch", "dinner", "snack"},
		Units: []models.QuantityUnit{
			{ID: "u-g", Name: "gram", ShortName: "g", DefaultValue: 100, Increment: 10},
			{ID: "u-pc", Name: "piece", ShortName: "pc", DefaultValue: 1, Increment: 1},
		},
		Foods: []models.FoodItem{
			{ID: "f-banana", Name: "Banana", Emoji: "🍌", Calories: 89, Protein: 1.1, Carbs: 23, Fat: 0.3, Quantity: 1, Unit: models.UnitRef{ID: "u-pc"}},
			{ID: "f-almonds", Name: "Almonds", Emoji: "🌰", Calories: 579, Protein: 21, Carbs: 22, Fat: 50, Quantity: 100, Unit: models.UnitRef{ID: "u-g"}},
			{ID: "f-avocado", Name: "Avocado", Emoji: "🥑", Calories: 160, Protein: 2, Carbs: 9, Fat: 15, Quantity: 100, Unit: models.UnitRef{ID: "u-g"}},
		},
	}
	s.server = httptest.NewServer(s.routes())
	t.Cleanup(s.server.Close)
	return s
}

// URL is the API base URL
func (s *Service) URL() string {
	return s.server.URL + "/api"
}

func (s *Service) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("GET /api/auth/me", s.authed(s.me))
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, true, nil, "")
	})
	mux.HandleFunc("GET /api/meals", s.authed(s.listFoods))
	mux.HandleFunc("POST /api/meals", s.authed(s.createFood))
	mux.HandleFunc("GET /api/meals/types", s.authed(s.listMealTypes))
	mux.HandleFunc("GET /api/quantity-units", s.authed(s.listUnits))
	mux.HandleFunc("GET /api/logged-meals/{userId}", s.authed(s.listLogs))
	mux.HandleFunc("POST /api/logged-meals/bulk", s.authed(s.bulkLog))
	return mux
}

func envelope(w http.ResponseWriter, status int, success bool, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": success, "data": data, "message": message})
}

func (s *Service) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Mu.Lock()
		token := s.Token
		s.Mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer "+token {
			envelope(w, http.StatusUnauthorized, false, nil, "Invalid token")
			return
		}
		next(w, r)
	}
}

func (s *Service) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		envelope(w, http.StatusBadRequest, false, nil, "Malformed body")
		return
	}
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if creds.Email != s.User.Email || creds.Password != s.Password {
		envelope(w, http.StatusUnauthorized, false, nil, "Invalid email or password")
		return
	}
	envelope(w, http.StatusOK, true, map[string]any{
		"user":         s.User,
		"accessToken":  s.Token,
		"refreshToken": "refresh-" + s.Token,
	}, "")
}

func (s *Service) me(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	envelope(w, http.StatusOK, true, s.User, "")
}

func (s *Service) listFoods(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	envelope(w, http.StatusOK, true, s.Foods, "")
}

func (s *Service) createFood(w http.ResponseWriter, r *http.Request) {
	var food models.FoodItem
	if err := json.NewDecoder(r.Body).Decode(&food); err != nil {
		envelope(w, http.StatusBadRequest, false, nil, "Malformed body")
		return
	}
	s.Mu.Lock()
	defer s.Mu.Unlock()
	for _, f := range s.Foods {
		if strings.EqualFold(f.Name, food.Name) {
			envelope(w, http.StatusConflict, false, nil, "Food already exists")
			return
		}
	}
	s.nextID++
	food.ID = fmt.Sprintf("f-new-%d", s.nextID)
	s.Foods = append(s.Foods, food)
	envelope(w, http.StatusCreated, true, food, "")
}

func (s *Service) listMealTypes(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	envelope(w, http.StatusOK, true, s.MealTypes, "")
}

func (s *Service) listUnits(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	envelope(w, http.StatusOK, true, s.Units, "")
}

func (s *Service) listLogs(w http.ResponseWriter, r *http.Request) {
	start, err1 := strconv.ParseInt(r.URL.Query().Get("startDate"), 10, 64)
	end, err2 := strconv.ParseInt(r.URL.Query().Get("endDate"), 10, 64)
	if err1 != nil || err2 != nil {
		envelope(w, http.StatusBadRequest, false, nil, "startDate and endDate are required")
		return
	}

	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.LogFetches++
	if s.FailLogs {
		envelope(w, http.StatusOK, false, nil, "")
		return
	}
	out := []models.LoggedEntry{}
	for _, e := range s.Logs {
		if e.User == r.PathValue("userId") && int64(e.LogDate) >= start && int64(e.LogDate) <= end {
			out = append(out, e)
		}
	}
	envelope(w, http.StatusOK, true, out, "")
}

func (s *Service) bulkLog(w http.ResponseWriter, r *http.Request) {
	var req models.BulkLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope(w, http.StatusBadRequest, false, nil, "Malformed body")
		return
	}
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.BulkRequests = append(s.BulkRequests, req)
	if s.FailBulk {
		envelope(w, http.StatusOK, false, nil, "Could not log meals")
		return
	}

	var total float64
	for _, item := range req.Items {
		food, ok := s.food(item.Meal)
		if !ok {
			envelope(w, http.StatusBadRequest, false, nil, "Unknown meal "+item.Meal)
			return
		}
		s.nextID++
		s.Logs = append(s.Logs, models.LoggedEntry{
			ID:              fmt.Sprintf("log-%d", s.nextID),
			User:            req.User,
			Meal:            food.ID,
			MealType:        req.MealType,
			Quantity:        float64(item.Quantity),
			LoggedAt:        models.EpochMillis(req.LoggedAt),
			LogDate:         models.EpochMillis(req.LogDate),
			Name:            food.Name,
			Emoji:           food.Emoji,
			Calories:        food.Calories,
			Protein:         food.Protein,
			Carbs:           food.Carbs,
			Fat:             food.Fat,
			ServingQuantity: food.Quantity,
		})
		total += food.Calories * float64(item.Quantity)
	}
	envelope(w, http.StatusCreated, true, models.BulkLogResult{
		TotalItems:    len(req.Items),
		TotalCalories: total,
		MealType:      req.MealType,
		LoggedAt:      models.EpochMillis(req.LoggedAt),
	}, "")
}

func (s *Service) food(id string) (models.FoodItem, bool) {
	for _, f := range s.Foods {
		if f.ID == id {
			return f, true
		}
	}
	return models.FoodItem{}, false
}

// NewContext initializes a sqlite store under t.TempDir and bootstraps a command
// context against svc. Sessions persist to sqlite so no OS keyring is needed.
func NewContext(t *testing.T, svc *Service) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "platewise.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	settings.SessionBackend = constants.SessionBackendSQLite
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	out := &bytes.Buffer{}
	ctx := &cli.Context{Store: store, APIURL: svc.URL(), Out: out}
	if err := ctx.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	return ctx, out
}

// Login signs ctx in as the service's user
func Login(t *testing.T, ctx *cli.Context, svc *Service) {
	t.Helper()
	if err := ctx.Session.Login(context.Background(), svc.User.Email, svc.Password); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}
