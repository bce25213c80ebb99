package daylog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/julianstephens/platewise/internal/constants"
	apperrors "github.com/julianstephens/platewise/internal/errors"
	"github.com/julianstephens/platewise/internal/logger"
	"github.com/julianstephens/platewise/internal/models"
	"github.com/julianstephens/platewise/internal/notice"
	"github.com/julianstephens/platewise/internal/utils"
)

// ErrOutsideWindow is returned when navigating further back than constants.MaxDayOffset
var ErrOutsideWindow = errors.New(constants.NoticeOutsideWindow)

// LogFetcher reads logged entries; *api.Client satisfies it
type LogFetcher interface {
	ListLoggedMeals(ctx context.Context, userID string, start, end int64) ([]models.LoggedEntry, error)
}

// DayView is the server's record of one day, bucketed by meal slot
type DayView struct {
	Offset int
	Start  int64
	End    int64
	Slots  map[models.MealSlot][]models.LoggedEntry
	Loaded bool
}

// Entries returns the entries logged against slot
func (v DayView) Entries(slot models.MealSlot) []models.LoggedEntry {
	return v.Slots[slot]
}

// Count returns the number of entries across every slot
func (v DayView) Count() int {
	n := 0
	for _, entries := range v.Slots {
		n += len(entries)
	}
	return n
}

func (v DayView) clone() DayView {
	out := v
	out.Slots = make(map[models.MealSlot][]models.LoggedEntry, len(v.Slots))
	for slot, entries := range v.Slots {
		out.Slots[slot] = append([]models.LoggedEntry(nil), entries...)
	}
	return out
}

// Request describes one day-log fetch. Seq orders requests issued by a reconciler.
type Request struct {
	Seq    uint64
	UserID string
	Offset int
	Start  int64
	End    int64
}

// Result is the outcome of a Request
type Result struct {
	Request
	Entries []models.LoggedEntry
	Err     error
}

// Option configures a Reconciler
type Option func(*Reconciler)

// WithLocation sets the timezone days are computed in
func WithLocation(loc *time.Location) Option {
	return func(r *Reconciler) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// Reconciler keeps the dashboard's day view in sync with the service. Only the
// response to the most recently issued request is ever applied.
type Reconciler struct {
	mu      sync.Mutex
	userID  string
	offset  int
	view    DayView
	seq     uint64
	pending bool

	notices *notice.Board
	loc     *time.Location
	now     func() time.Time
}

// New creates a reconciler showing today with an empty view
func New(board *notice.Board, opts ...Option) *Reconciler {
	r := &Reconciler{
		notices: board,
		loc:     time.Local,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.view = emptyView(0)
	return r
}

func emptyView(offset int) DayView {
	slots := make(map[models.MealSlot][]models.LoggedEntry, 4)
	for _, s := range models.MealSlots() {
		slots[s] = nil
	}
	return DayView{Offset: offset, Slots: slots}
}

// SetUser switches the acting user. The view is reset and any outstanding
// request becomes stale so one user's entries never show under another.
func (r *Reconciler) SetUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if userID == r.userID {
		return
	}
	r.userID = userID
	r.offset = 0
	r.view = emptyView(0)
	r.seq++
	r.pending = false
}

// UserID returns the acting user
func (r *Reconciler) UserID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userID
}

// Offset returns the selected day offset (0 = today)
func (r *Reconciler) Offset() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.offset
}

// View returns a copy of the current day view
func (r *Reconciler) View() DayView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view.clone()
}

// Loading reports whether the latest request is still outstanding
func (r *Reconciler) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// PreviousDay moves one day back. At the edge of the window it leaves the offset
// alone, posts a notice and returns ErrOutsideWindow.
func (r *Reconciler) PreviousDay() (Request, error) {
	r.mu.Lock()
	if r.offset >= constants.MaxDayOffset {
		r.mu.Unlock()
		if r.notices != nil {
			r.notices.Warn(constants.NoticeOutsideWindow)
		}
		return Request{}, ErrOutsideWindow
	}
	r.offset++
	req := r.beginLocked()
	r.mu.Unlock()
	return req, nil
}

// NextDay moves one day forward. It reports false and does nothing when already on today.
func (r *Reconciler) NextDay() (Request, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.offset <= 0 {
		return Request{}, false
	}
	r.offset--
	return r.beginLocked(), true
}

// Begin issues a request for the selected day, superseding any outstanding one
func (r *Reconciler) Begin() Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.beginLocked()
}

func (r *Reconciler) beginLocked() Request {
	r.seq++
	r.pending = true
	start, end := utils.DayRange(r.now().In(r.loc), r.offset)
	return Request{
		Seq:    r.seq,
		UserID: r.userID,
		Offset: r.offset,
		Start:  start,
		End:    end,
	}
}

// Fetch performs req against fetcher. It does not touch any reconciler, so it is
// safe to run off the UI goroutine.
func Fetch(ctx context.Context, fetcher LogFetcher, req Request) Result {
	entries, err := fetcher.ListLoggedMeals(ctx, req.UserID, req.Start, req.End)
	return Result{Request: req, Entries: entries, Err: err}
}

// Apply installs res if it answers the latest request and reports whether it did.
// A failed result keeps the previous view and posts a notice.
func (r *Reconciler) Apply(res Result) bool {
	r.mu.Lock()
	if latest := r.seq; res.Seq != latest {
		r.mu.Unlock()
		logger.Debug("discarding stale day log response", "seq", res.Seq, "latest", latest, "offset", res.Offset)
		return false
	}
	r.pending = false

	if res.Err != nil {
		r.mu.Unlock()
		logger.Warn("day log fetch failed", "offset", res.Offset, "error", res.Err)
		if r.notices != nil && !errors.Is(res.Err, context.Canceled) {
			r.notices.Error(apperrors.UserMessage(res.Err))
		}
		return false
	}

	r.view = group(res.Offset, res.Start, res.End, res.Entries)
	r.mu.Unlock()
	logger.Debug("day log applied", "offset", res.Offset, "entries", len(res.Entries))
	return true
}

// Refresh fetches and applies the selected day synchronously
func (r *Reconciler) Refresh(ctx context.Context, fetcher LogFetcher) error {
	res := Fetch(ctx, fetcher, r.Begin())
	r.Apply(res)
	return res.Err
}

// Day returns noon of the selected day in the configured location
func (r *Reconciler) Day() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return utils.DayFromOffset(r.now().In(r.loc), r.offset)
}

// DayStart returns the start of the selected day in epoch milliseconds
func (r *Reconciler) DayStart() int64 {
	return utils.StartOfDay(r.Day()).UnixMilli()
}

// Label names the selected day for the header
func (r *Reconciler) Label() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return utils.DayLabel(r.now().In(r.loc), r.offset)
}

func group(offset int, start, end int64, entries []models.LoggedEntry) DayView {
	view := emptyView(offset)
	view.Start = start
	view.End = end
	view.Loaded = true
	for _, e := range entries {
		if !e.MealType.Valid() {
			logger.Warn("dropping logged entry with unknown meal slot", "id", e.ID, "mealType", string(e.MealType))
			continue
		}
		view.Slots[e.MealType] = append(view.Slots[e.MealType], e)
	}
	return view
}
