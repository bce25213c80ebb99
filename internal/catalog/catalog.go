package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/julianstephens/platewise/internal/logger"
	"github.com/julianstephens/platewise/internal/models"
)

// Source fetches catalog reference data; *api.Client satisfies it
type Source interface {
	ListFoods(ctx context.Context) ([]models.FoodItem, error)
	ListQuantityUnits(ctx context.Context) ([]models.QuantityUnit, error)
	ListMealTypes(ctx context.Context) ([]string, error)
}

// Search returns the foods whose name contains query, ignoring case.
// An empty query returns foods unchanged; order is always preserved.
func Search(query string, foods []models.FoodItem) []models.FoodItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return foods
	}
	out := make([]models.FoodItem, 0, len(foods))
	for _, f := range foods {
		if strings.Contains(strings.ToLower(f.Name), q) {
			out = append(out, f)
		}
	}
	return out
}

// Provider holds the loaded catalog. Loads may run off the UI goroutine, so
// access is synchronized.
type Provider struct {
	src Source

	mu        sync.RWMutex
	foods     []models.FoodItem
	units     []models.QuantityUnit
	unitByID  map[string]models.QuantityUnit
	mealTypes []string
	loading   int
}

// NewProvider creates an empty provider backed by src
func NewProvider(src Source) *Provider {
	return &Provider{src: src, unitByID: map[string]models.QuantityUnit{}}
}

// Loading reports whether a load is outstanding; search and "add new food" are disabled meanwhile.
func (p *Provider) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading > 0
}

func (p *Provider) begin() {
	p.mu.Lock()
	p.loading++
	p.mu.Unlock()
}

func (p *Provider) end() {
	p.mu.Lock()
	p.loading--
	p.mu.Unlock()
}

// LoadFoods replaces the food list. On failure the previous list is kept.
func (p *Provider) LoadFoods(ctx context.Context) error {
	p.begin()
	defer p.end()

	foods, err := p.src.ListFoods(ctx)
	if err != nil {
		logger.Warn("loading catalog failed", "error", err)
		return err
	}

	p.mu.Lock()
	p.foods = foods
	p.mu.Unlock()
	logger.Debug("catalog loaded", "foods", len(foods))
	return nil
}

// LoadUnits replaces the quantity units. On failure the previous units are kept.
func (p *Provider) LoadUnits(ctx context.Context) error {
	p.begin()
	defer p.end()

	units, err := p.src.ListQuantityUnits(ctx)
	if err != nil {
		logger.Warn("loading quantity units failed", "error", err)
		return err
	}

	byID := make(map[string]models.QuantityUnit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}
	p.mu.Lock()
	p.units = units
	p.unitByID = byID
	p.mu.Unlock()
	return nil
}

// LoadMealTypes replaces the meal type names reported by the service
func (p *Provider) LoadMealTypes(ctx context.Context) error {
	types, err := p.src.ListMealTypes(ctx)
	if err != nil {
		logger.Warn("loading meal types failed", "error", err)
		return err
	}
	p.mu.Lock()
	p.mealTypes = types
	p.mu.Unlock()
	return nil
}

// Foods returns the loaded catalog
func (p *Provider) Foods() []models.FoodItem {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.FoodItem(nil), p.foods...)
}

// Food looks a food up by id
func (p *Provider) Food(id string) (models.FoodItem, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, f := range p.foods {
		if f.ID == id {
			return f, true
		}
	}
	return models.FoodItem{}, false
}

// Units returns the loaded quantity units
func (p *Provider) Units() []models.QuantityUnit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.QuantityUnit(nil), p.units...)
}

// Unit resolves a unit reference by id. Units embedded in the reference are
// used when the unit table has not been loaded.
func (p *Provider) Unit(ref models.UnitRef) (models.QuantityUnit, bool) {
	p.mu.RLock()
	u, ok := p.unitByID[ref.ID]
	p.mu.RUnlock()
	if ok {
		return u, true
	}
	if ref.Embedded != nil {
		return *ref.Embedded, true
	}
	return models.QuantityUnit{}, false
}

// Serving renders a food's serving descriptor with its resolved unit
func (p *Provider) Serving(f models.FoodItem) string {
	u, _ := p.Unit(f.Unit)
	return models.FormatServing(f.Quantity, u.Label())
}

// MealTypes returns the meal types the service reported
func (p *Provider) MealTypes() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.mealTypes...)
}

// Search filters the loaded catalog
func (p *Provider) Search(query string) []models.FoodItem {
	return Search(query, p.Foods())
}

// Add appends a freshly created food so it can be selected right away
func (p *Provider) Add(f models.FoodItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.foods {
		if p.foods[i].ID == f.ID {
			p.foods[i] = f
			return
		}
	}
	p.foods = append(p.foods, f)
}
