package submit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/platewise/internal/daylog"
	"github.com/julianstephens/platewise/internal/models"
	"github.com/julianstephens/platewise/internal/notice"
	"github.com/julianstephens/platewise/internal/selection"
)

var now = time.Date(2024, 5, 15, 14, 30, 0, 0, time.UTC)

type fakeBulk struct {
	reqs []models.BulkLogRequest
	err  error
}

func (f *fakeBulk) LogMealsBulk(_ context.Context, req models.BulkLogRequest) (models.BulkLogResult, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return models.BulkLogResult{}, f.err
	}
	return models.BulkLogResult{TotalItems: len(req.Items), MealType: req.MealType}, nil
}

type countingFetcher struct{ calls int }

func (f *countingFetcher) ListLoggedMeals(context.Context, string, int64, int64) ([]models.LoggedEntry, error) {
	f.calls++
	return []models.LoggedEntry{{ID: "e1", MealType: models.MealLunch, Quantity: 1}}, nil
}

type fixture struct {
	bulk    *fakeBulk
	fetcher *countingFetcher
	board   *notice.Board
	rec     *daylog.Reconciler
	sub     *Submitter
	agg     *selection.Aggregator
}

func newFixture() *fixture {
	f := &fixture{
		bulk:    &fakeBulk{},
		fetcher: &countingFetcher{},
		board:   notice.NewBoard(time.Minute),
		agg:     selection.New(),
	}
	f.rec = daylog.New(f.board, daylog.WithClock(func() time.Time { return now }), daylog.WithLocation(time.UTC))
	f.rec.SetUser("usr1")
	f.sub = New(f.bulk, f.rec, f.fetcher, f.board)
	f.sub.SetClock(func() time.Time { return now })

	f.agg.SelectOrIncrement(models.FoodItem{ID: "f1", Name: "Oats"})
	f.agg.SelectOrIncrement(models.FoodItem{ID: "f2", Name: "Milk"})
	f.agg.SelectOrIncrement(models.FoodItem{ID: "f2", Name: "Milk"})
	f.agg.SelectOrIncrement(models.FoodItem{ID: "f3", Name: "Berries"})
	return f
}

var user = models.User{ID: "usr1", Name: "Sam"}

func TestSubmitFailureKeepsSelection(t *testing.T) {
	f := newFixture()
	f.bulk.err = errors.New("boom")

	_, err := f.sub.Submit(context.Background(), user, models.MealBreakfast, f.agg)
	require.Error(t, err)

	assert.Equal(t, 3, f.agg.Len())
	assert.Equal(t, 2, f.agg.Quantity("f2"))
	assert.Equal(t, 0, f.fetcher.calls)
	n, ok := f.board.Latest()
	require.True(t, ok)
	assert.Equal(t, notice.LevelError, n.Level)
}

func TestSubmitSuccessClearsAndRefetchesOnce(t *testing.T) {
	f := newFixture()

	out, err := f.sub.Submit(context.Background(), user, models.MealBreakfast, f.agg)
	require.NoError(t, err)

	assert.True(t, f.agg.IsEmpty())
	assert.Equal(t, 1, f.fetcher.calls)
	assert.Equal(t, 3, out.Added)
	assert.Equal(t, "Added 3 item(s) to breakfast", out.Message())
	assert.Equal(t, 1, f.rec.View().Count())

	n, ok := f.board.Latest()
	require.True(t, ok)
	assert.Equal(t, out.Message(), n.Text)
}

func TestSubmitRequestBody(t *testing.T) {
	f := newFixture()
	_, err := f.rec.PreviousDay()
	require.NoError(t, err)

	_, err = f.sub.Submit(context.Background(), user, models.MealDinner, f.agg)
	require.NoError(t, err)
	require.Len(t, f.bulk.reqs, 1)

	req := f.bulk.reqs[0]
	assert.Equal(t, "usr1", req.User)
	assert.Equal(t, models.MealDinner, req.MealType)
	assert.Equal(t, []models.BulkLogItem{{Meal: "f1", Quantity: 1}, {Meal: "f2", Quantity: 2}, {Meal: "f3", Quantity: 1}}, req.Items)
	assert.Equal(t, time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC).UnixMilli(), req.LogDate, "log date is the viewed day, not today")
	assert.Equal(t, now.UnixMilli(), req.LoggedAt)
}

func TestSubmitRejectsEmptySelection(t *testing.T) {
	f := newFixture()
	f.agg.Clear()

	_, err := f.sub.Submit(context.Background(), user, models.MealLunch, f.agg)
	require.ErrorIs(t, err, ErrEmptySelection)
	assert.Empty(t, f.bulk.reqs)
	assert.Equal(t, 0, f.fetcher.calls)
}

func TestBuildRequestValidation(t *testing.T) {
	entries := []selection.Entry{{Food: models.FoodItem{ID: "f1"}, Quantity: 1}}

	_, err := BuildRequest("", models.MealLunch, entries, 0, now)
	assert.ErrorIs(t, err, ErrNoUser)

	_, err = BuildRequest("usr1", "brunch", entries, 0, now)
	assert.Error(t, err)

	req, err := BuildRequest("usr1", models.MealSnack, entries, 42, now)
	require.NoError(t, err)
	assert.Equal(t, int64(42), req.LogDate)
}
