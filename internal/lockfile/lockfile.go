package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpid          = os.Getpid
)

// ErrLocked is returned when another live platewise process holds the lock
var ErrLocked = errors.New("another platewise process is running")

// LockedError reports the pid holding the lock
type LockedError struct {
	PID int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s (pid %d)", ErrLocked, e.PID)
}

func (e *LockedError) Unwrap() error { return ErrLocked }

// Lock is a held lockfile
type Lock struct {
	path string
	pid  int
}

// Path returns the default lockfile location inside configDir
func Path(configDir string) string {
	return filepath.Join(configDir, constants.SessionLockfileName)
}

// Acquire takes the lock at path. A lock left behind by a dead process, or by a
// pid now used by some other program, is replaced.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	pid := getpid()
	content := fmt.Sprintf("%d|%s", pid, constants.AppName)

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := f.WriteString(content)
			cerr := f.Close()
			if werr != nil {
				return nil, werr
			}
			if cerr != nil {
				return nil, cerr
			}
			logger.Debug("lock acquired", "path", path, "pid", pid)
			return &Lock{path: path, pid: pid}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		owner, live := holder(path)
		if live && owner != pid {
			return nil, &LockedError{PID: owner}
		}
		logger.Warn("removing stale lockfile", "path", path, "pid", owner)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, ErrLocked
}

// holder parses the lockfile and reports its pid and whether that process is a live platewise
func holder(path string) (int, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return 0, false
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return 0, false
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return pid, false
	}
	if !strings.HasPrefix(process.Executable(), parts[1]) {
		return pid, false
	}
	return pid, true
}

// Release removes the lockfile if this process still owns it
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	content, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !strings.HasPrefix(strings.TrimSpace(string(content)), strconv.Itoa(l.pid)+"|") {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	logger.Debug("lock released", "path", l.path)
	return nil
}
