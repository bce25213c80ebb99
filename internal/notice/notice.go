package notice

import (
	"sync"
	"time"

	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/logger"
)

// Level is the severity of a notice
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a transient, user-facing message
type Notice struct {
	Level Level
	Text  string
	At    time.Time
}

// Board collects notices for whichever surface is showing them
type Board struct {
	mu      sync.Mutex
	notices []Notice
	ttl     time.Duration
	now     func() time.Time
}

// NewBoard creates a board whose notices expire after ttl; zero means constants.NoticeTTL
func NewBoard(ttl time.Duration) *Board {
	if ttl <= 0 {
		ttl = constants.NoticeTTL
	}
	return &Board{ttl: ttl, now: time.Now}
}

// Push records a notice and mirrors it to the log
func (b *Board) Push(level Level, text string) Notice {
	n := Notice{Level: level, Text: text, At: b.now()}

	switch level {
	case LevelError:
		logger.Error("notice", "text", text)
	case LevelWarn:
		logger.Warn("notice", "text", text)
	default:
		logger.Info("notice", "text", text)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
	// keep a short history; only the newest is ever shown
	if len(b.notices) > 16 {
		b.notices = b.notices[len(b.notices)-16:]
	}
	return n
}

func (b *Board) Info(text string) Notice  { return b.Push(LevelInfo, text) }
func (b *Board) Warn(text string) Notice  { return b.Push(LevelWarn, text) }
func (b *Board) Error(text string) Notice { return b.Push(LevelError, text) }

// Current returns the newest notice that has not expired at now
func (b *Board) Current(now time.Time) (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.notices) == 0 {
		return Notice{}, false
	}
	n := b.notices[len(b.notices)-1]
	if now.Sub(n.At) >= b.ttl {
		return Notice{}, false
	}
	return n, true
}

// Latest returns the newest notice regardless of age
func (b *Board) Latest() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.notices) == 0 {
		return Notice{}, false
	}
	return b.notices[len(b.notices)-1], true
}

// Len reports how many notices are retained
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.notices)
}

func (b *Board) Clear() {
	b.mu.Lock()
	b.notices = nil
	b.mu.Unlock()
}
