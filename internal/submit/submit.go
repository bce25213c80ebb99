package submit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/daylog"
	apperrors "github.com/julianstephens/platewise/internal/errors"
	"github.com/julianstephens/platewise/internal/logger"
	"github.com/julianstephens/platewise/internal/models"
	"github.com/julianstephens/platewise/internal/notice"
	"github.com/julianstephens/platewise/internal/selection"
)

var (
	// ErrEmptySelection is returned when there is nothing to log
	ErrEmptySelection = errors.New(constants.NoticeEmptySelection)
	// ErrNoUser is returned when no user is signed in
	ErrNoUser = errors.New("no signed-in user")
)

// BulkLogger sends bulk log requests; *api.Client satisfies it
type BulkLogger interface {
	LogMealsBulk(ctx context.Context, req models.BulkLogRequest) (models.BulkLogResult, error)
}

// Outcome describes an accepted submission
type Outcome struct {
	Added  int
	Slot   models.MealSlot
	Result models.BulkLogResult
}

// Message is the confirmation shown to the user
func (o Outcome) Message() string {
	return fmt.Sprintf("Added %d item(s) to %s", o.Added, o.Slot)
}

// Submitter turns a selection into one bulk log request
type Submitter struct {
	client     BulkLogger
	reconciler *daylog.Reconciler
	fetcher    daylog.LogFetcher
	notices    *notice.Board
	now        func() time.Time
}

// New creates a submitter. After a successful submission it refreshes
// reconciler through fetcher.
func New(client BulkLogger, reconciler *daylog.Reconciler, fetcher daylog.LogFetcher, board *notice.Board) *Submitter {
	return &Submitter{
		client:     client,
		reconciler: reconciler,
		fetcher:    fetcher,
		notices:    board,
		now:        time.Now,
	}
}

// SetClock replaces time.Now for loggedAt stamps
func (s *Submitter) SetClock(now func() time.Time) {
	s.now = now
}

// BuildRequest assembles the request body. Items keep selection order.
func BuildRequest(userID string, slot models.MealSlot, entries []selection.Entry, logDate int64, now time.Time) (models.BulkLogRequest, error) {
	if len(entries) == 0 {
		return models.BulkLogRequest{}, ErrEmptySelection
	}
	if userID == "" {
		return models.BulkLogRequest{}, ErrNoUser
	}
	if !slot.Valid() {
		return models.BulkLogRequest{}, fmt.Errorf("unknown meal slot %q", slot)
	}

	items := make([]models.BulkLogItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, models.BulkLogItem{Meal: e.Food.ID, Quantity: e.Quantity})
	}
	return models.BulkLogRequest{
		User:     userID,
		MealType: slot,
		Items:    items,
		LogDate:  logDate,
		LoggedAt: now.UnixMilli(),
	}, nil
}

// Prepare builds the request for the day the reconciler is showing
func (s *Submitter) Prepare(user models.User, slot models.MealSlot, agg *selection.Aggregator) (models.BulkLogRequest, error) {
	return BuildRequest(user.ID, slot, agg.Entries(), s.reconciler.DayStart(), s.now())
}

// Send performs the request. It touches no shared state, so it can run off the UI goroutine.
func (s *Submitter) Send(ctx context.Context, req models.BulkLogRequest) (Outcome, error) {
	result, err := s.client.LogMealsBulk(ctx, req)
	if err != nil {
		logger.Warn("bulk log failed", "mealType", string(req.MealType), "items", len(req.Items), "error", err)
		return Outcome{}, err
	}
	added := len(req.Items)
	if result.TotalItems > 0 {
		added = result.TotalItems
	}
	logger.Info("bulk log accepted", "mealType", string(req.MealType), "items", added)
	return Outcome{Added: added, Slot: req.MealType, Result: result}, nil
}

// Complete clears the selection and posts the confirmation. The caller refetches the day.
func (s *Submitter) Complete(agg *selection.Aggregator, out Outcome) {
	agg.Clear()
	if s.notices != nil {
		s.notices.Info(out.Message())
	}
}

// Fail posts a notice for a rejected submission; the selection is left as is
func (s *Submitter) Fail(err error) {
	if s.notices != nil {
		s.notices.Error(apperrors.UserMessage(err))
	}
}

// Submit logs every selected food against slot. On success the selection is
// cleared and the day view is refetched once; on failure the selection is kept.
func (s *Submitter) Submit(ctx context.Context, user models.User, slot models.MealSlot, agg *selection.Aggregator) (Outcome, error) {
	req, err := s.Prepare(user, slot, agg)
	if err != nil {
		return Outcome{}, err
	}

	out, err := s.Send(ctx, req)
	if err != nil {
		s.Fail(err)
		return Outcome{}, err
	}

	s.Complete(agg, out)
	if s.fetcher != nil {
		// refetch failures keep the previous view and post their own notice
		_ = s.reconciler.Refresh(ctx, s.fetcher)
	}
	return out, nil
}
