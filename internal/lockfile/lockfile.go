// Package lockfile guards the database against concurrent becoming processes.
// The lock is a "pid|executable|timestamp" file next to the database.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/becoming/internal/constants"
	"github.com/julianstephens/becoming/internal/logger"
)

// ErrLocked is returned when another live process holds the lock.
var ErrLocked = errors.New("database is in use by another becoming process")

var (
	findProcessFunc = ps.FindProcess
	nowFunc         = time.Now
	getpidFunc      = os.Getpid
)

// Lock is a held lockfile.
type Lock struct {
	path string
	pid  int
}

// Holder describes the process recorded in a lockfile.
type Holder struct {
	PID        int
	Executable string
	Acquired   time.Time
}

// PathFor returns the lockfile path used for dbPath.
func PathFor(dbPath string) string {
	return dbPath + constants.LockfileSuffix
}

// Acquire takes the lock for dbPath, reclaiming it when the recorded holder is gone,
// belongs to a different program, or is older than constants.LockStaleAfter.
func Acquire(dbPath string) (*Lock, error) {
	path := PathFor(dbPath)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	pid := getpidFunc()
	content := fmt.Sprintf("%d|%s|%s", pid, selfExecutable(pid), nowFunc().UTC().Format(time.RFC3339))

	var lastHolder Holder
	for attempt := 1; attempt <= constants.LockMaxAttempts; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := f.WriteString(content)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			logger.Debug("Lock acquired", "path", path, "pid", pid)
			return &Lock{path: path, pid: pid}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		holder, live := inspect(path)
		if !live {
			logger.Warn("Reclaiming stale lockfile", "path", path, "pid", holder.PID)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
			}
			continue
		}
		lastHolder = holder
		time.Sleep(constants.LockRetryDelay)
	}

	return nil, fmt.Errorf("%w (pid %d, since %s)", ErrLocked, lastHolder.PID, lastHolder.Acquired.Format(time.RFC3339))
}

// Release removes the lockfile if it still belongs to this lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	holder, err := Read(l.path)
	if err == nil && holder.PID != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Read parses the lockfile at path.
func Read(path string) (Holder, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Holder{}, err
	}
	parts := strings.Split(strings.TrimSpace(string(raw)), "|")
	if len(parts) != 3 {
		return Holder{}, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Holder{}, errors.New("invalid process ID in lockfile")
	}
	acquired, err := time.Parse(time.RFC3339, parts[2])
	if err != nil {
		return Holder{}, errors.New("invalid timestamp in lockfile")
	}
	return Holder{PID: pid, Executable: parts[1], Acquired: acquired}, nil
}

// inspect reports the recorded holder and whether it still counts as live.
func inspect(path string) (Holder, bool) {
	holder, err := Read(path)
	if err != nil {
		return holder, false
	}
	if nowFunc().Sub(holder.Acquired) > constants.LockStaleAfter {
		return holder, false
	}
	if holder.PID == getpidFunc() {
		return holder, false
	}
	proc, err := findProcessFunc(holder.PID)
	if err != nil || proc == nil {
		return holder, false
	}
	return holder, proc.Executable() == holder.Executable
}

func selfExecutable(pid int) string {
	if proc, err := findProcessFunc(pid); err == nil && proc != nil {
		return proc.Executable()
	}
	return constants.AppName
}
