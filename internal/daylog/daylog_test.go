package daylog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/platewise/internal/api"
	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/models"
	"github.com/julianstephens/platewise/internal/notice"
	"github.com/julianstephens/platewise/internal/utils"
)

var fixedNow = time.Date(2024, 5, 15, 14, 30, 0, 0, time.UTC)

// dayFetcher serves entries by the start of the requested day
type dayFetcher struct {
	byStart map[int64][]models.LoggedEntry
	err     error
	calls   []Request
}

func (f *dayFetcher) ListLoggedMeals(_ context.Context, userID string, start, end int64) ([]models.LoggedEntry, error) {
	f.calls = append(f.calls, Request{UserID: userID, Start: start, End: end})
	if f.err != nil {
		return nil, f.err
	}
	return f.byStart[start], nil
}

func newFetcher() *dayFetcher {
	f := &dayFetcher{byStart: map[int64][]models.LoggedEntry{}}
	for offset := 0; offset <= constants.MaxDayOffset; offset++ {
		start, _ := utils.DayRange(fixedNow, offset)
		f.byStart[start] = []models.LoggedEntry{
			{ID: fmt.Sprintf("b%d", offset), MealType: models.MealBreakfast, Quantity: 1, Calories: 100},
			{ID: fmt.Sprintf("l%d", offset), MealType: models.MealLunch, Quantity: 2, Calories: 50},
		}
	}
	return f
}

func newReconciler(board *notice.Board) *Reconciler {
	r := New(board, WithClock(func() time.Time { return fixedNow }), WithLocation(time.UTC))
	r.SetUser("usr1")
	return r
}

func ids(entries []models.LoggedEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	ctx := context.Background()
	f := newFetcher()
	r := newReconciler(notice.NewBoard(time.Minute))

	req0 := r.Begin()
	req1, err := r.PreviousDay()
	require.NoError(t, err)
	require.Greater(t, req1.Seq, req0.Seq)

	res1 := Fetch(ctx, f, req1)
	res0 := Fetch(ctx, f, req0)

	assert.True(t, r.Apply(res1))
	assert.False(t, r.Apply(res0), "offset 0 response resolved last and must be dropped")

	view := r.View()
	assert.Equal(t, 1, view.Offset)
	assert.Equal(t, []string{"b1"}, ids(view.Entries(models.MealBreakfast)))
	assert.Equal(t, []string{"l1"}, ids(view.Entries(models.MealLunch)))
	assert.False(t, r.Loading())
}

func TestFailedRefetchPreservesView(t *testing.T) {
	ctx := context.Background()
	f := newFetcher()
	board := notice.NewBoard(time.Minute)
	r := newReconciler(board)

	require.NoError(t, r.Refresh(ctx, f))
	before := r.View()
	require.Equal(t, 2, before.Count())

	f.err = &api.ResponseError{StatusCode: 200}
	err := r.Refresh(ctx, f)
	require.Error(t, err)

	after := r.View()
	for _, slot := range models.MealSlots() {
		assert.Equal(t, before.Entries(slot), after.Entries(slot), "slot %s", slot)
	}
	n, ok := board.Latest()
	require.True(t, ok)
	assert.Equal(t, notice.LevelError, n.Level)
	assert.Equal(t, constants.NoticeGenericFailure, n.Text)
}

func TestFailedRefetchNetworkNotice(t *testing.T) {
	board := notice.NewBoard(time.Minute)
	r := newReconciler(board)
	f := &dayFetcher{err: fmt.Errorf("%w: dial tcp: refused", api.ErrUnavailable)}

	require.Error(t, r.Refresh(context.Background(), f))
	n, ok := board.Latest()
	require.True(t, ok)
	assert.Equal(t, constants.NoticeNetworkError, n.Text)
	assert.False(t, r.View().Loaded)
}

func TestDayWindowBoundary(t *testing.T) {
	board := notice.NewBoard(time.Minute)
	r := newReconciler(board)

	_, moved := r.NextDay()
	assert.False(t, moved)
	assert.Equal(t, 0, r.Offset())
	assert.Equal(t, 0, board.Len(), "next day on today is silent")

	for i := 1; i <= constants.MaxDayOffset; i++ {
		req, err := r.PreviousDay()
		require.NoError(t, err)
		assert.Equal(t, i, req.Offset)
	}

	_, err := r.PreviousDay()
	require.ErrorIs(t, err, ErrOutsideWindow)
	assert.Equal(t, constants.MaxDayOffset, r.Offset())
	n, ok := board.Latest()
	require.True(t, ok)
	assert.Equal(t, constants.NoticeOutsideWindow, n.Text)

	req, moved := r.NextDay()
	require.True(t, moved)
	assert.Equal(t, 1, req.Offset)
}

func TestRequestRange(t *testing.T) {
	r := newReconciler(nil)
	req := r.Begin()

	assert.Equal(t, "usr1", req.UserID)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC).UnixMilli(), req.Start)
	assert.Equal(t, time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC).UnixMilli()-1, req.End)

	_, err := r.PreviousDay()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC).UnixMilli(), r.DayStart())
	assert.Equal(t, "Yesterday", r.Label())
}

func TestLabels(t *testing.T) {
	r := newReconciler(nil)
	assert.Equal(t, "Today", r.Label())
	_, _ = r.PreviousDay()
	_, _ = r.PreviousDay()
	assert.Equal(t, "May 13", r.Label())
}

func TestUnknownSlotIsDropped(t *testing.T) {
	r := newReconciler(nil)
	req := r.Begin()
	res := Result{Request: req, Entries: []models.LoggedEntry{
		{ID: "a", MealType: models.MealDinner},
		{ID: "b", MealType: "brunch"},
		{ID: "c", MealType: models.MealDinner},
		{ID: "d", MealType: models.MealSnack},
	}}
	require.True(t, r.Apply(res))

	view := r.View()
	assert.Equal(t, []string{"a", "c"}, ids(view.Entries(models.MealDinner)))
	assert.Equal(t, []string{"d"}, ids(view.Entries(models.MealSnack)))
	assert.Equal(t, 3, view.Count())
}

func TestViewIsReplacedWholesale(t *testing.T) {
	r := newReconciler(nil)
	require.True(t, r.Apply(Result{Request: r.Begin(), Entries: []models.LoggedEntry{{ID: "old", MealType: models.MealLunch}}}))
	require.True(t, r.Apply(Result{Request: r.Begin(), Entries: []models.LoggedEntry{{ID: "new", MealType: models.MealSnack}}}))

	view := r.View()
	assert.Empty(t, view.Entries(models.MealLunch))
	assert.Equal(t, []string{"new"}, ids(view.Entries(models.MealSnack)))
}

func TestSetUserInvalidatesOutstandingRequest(t *testing.T) {
	r := newReconciler(nil)
	require.True(t, r.Apply(Result{Request: r.Begin(), Entries: []models.LoggedEntry{{ID: "mine", MealType: models.MealLunch}}}))

	req := r.Begin()
	r.SetUser("usr2")
	assert.False(t, r.Apply(Result{Request: req, Entries: []models.LoggedEntry{{ID: "late", MealType: models.MealLunch}}}))
	assert.Equal(t, 0, r.View().Count())
	assert.Equal(t, "usr2", r.UserID())
}

func TestViewCopyIsIsolated(t *testing.T) {
	r := newReconciler(nil)
	require.True(t, r.Apply(Result{Request: r.Begin(), Entries: []models.LoggedEntry{{ID: "x", MealType: models.MealLunch}}}))

	v := r.View()
	v.Slots[models.MealLunch][0].ID = "mutated"
	assert.Equal(t, "x", r.View().Entries(models.MealLunch)[0].ID)
}

func TestCanceledFetchPostsNoNotice(t *testing.T) {
	board := notice.NewBoard(time.Minute)
	r := newReconciler(board)
	f := &dayFetcher{err: context.Canceled}
	err := r.Refresh(context.Background(), f)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, board.Len())
}
