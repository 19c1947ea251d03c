package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-ps"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

// withProcesses installs a fake process table and a fixed clock.
func withProcesses(t *testing.T, now time.Time, self int, procs map[int]string) {
	t.Helper()
	oldFind, oldNow, oldPid := findProcessFunc, nowFunc, getpidFunc
	t.Cleanup(func() { findProcessFunc, nowFunc, getpidFunc = oldFind, oldNow, oldPid })

	findProcessFunc = func(pid int) (ps.Process, error) {
		if exe, ok := procs[pid]; ok {
			return &mockProcess{pid: pid, executable: exe}, nil
		}
		return nil, nil
	}
	nowFunc = func() time.Time { return now }
	getpidFunc = func() int { return self }
}

func writeLock(t *testing.T, path string, pid int, exe string, at time.Time) {
	t.Helper()
	content := fmt.Sprintf("%d|%s|%s", pid, exe, at.UTC().Format(time.RFC3339))
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestAcquireAndRelease(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	withProcesses(t, now, 100, map[int]string{100: "becoming"})
	dbPath := filepath.Join(t.TempDir(), "becoming.db")

	lock, err := Acquire(dbPath)
	if err != nil {
		t.Fatalf("Acquire() failed: %v", err)
	}
	holder, err := Read(PathFor(dbPath))
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if holder.PID != 100 || holder.Executable != "becoming" || !holder.Acquired.Equal(now) {
		t.Errorf("holder = %+v", holder)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() failed: %v", err)
	}
	if _, err := os.Stat(PathFor(dbPath)); !os.IsNotExist(err) {
		t.Error("lockfile still present after Release")
	}
}

func TestAcquireHeldByLiveProcess(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	withProcesses(t, now, 100, map[int]string{100: "becoming", 200: "becoming"})
	dbPath := filepath.Join(t.TempDir(), "becoming.db")
	writeLock(t, PathFor(dbPath), 200, "becoming", now.Add(-time.Minute))

	_, err := Acquire(dbPath)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("Acquire() error = %v, want ErrLocked", err)
	}
	if holder, _ := Read(PathFor(dbPath)); holder.PID != 200 {
		t.Error("live holder's lockfile was replaced")
	}
}

func TestAcquireReclaimsStaleLocks(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		procs map[int]string
		write func(path string)
	}{
		{
			name:  "dead process",
			procs: map[int]string{100: "becoming"},
			write: func(path string) { writeLock(t, path, 200, "becoming", now) },
		},
		{
			name:  "pid reused by another program",
			procs: map[int]string{100: "becoming", 200: "vim"},
			write: func(path string) { writeLock(t, path, 200, "becoming", now) },
		},
		{
			name:  "too old",
			procs: map[int]string{100: "becoming", 200: "becoming"},
			write: func(path string) { writeLock(t, path, 200, "becoming", now.Add(-time.Hour)) },
		},
		{
			name:  "malformed",
			procs: map[int]string{100: "becoming"},
			write: func(path string) { _ = os.WriteFile(path, []byte("garbage"), 0600) },
		},
		{
			name:  "left by this process",
			procs: map[int]string{100: "becoming"},
			write: func(path string) { writeLock(t, path, 100, "becoming", now) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withProcesses(t, now, 100, tt.procs)
			dbPath := filepath.Join(t.TempDir(), "becoming.db")
			tt.write(PathFor(dbPath))

			lock, err := Acquire(dbPath)
			if err != nil {
				t.Fatalf("Acquire() failed: %v", err)
			}
			defer lock.Release()

			holder, err := Read(PathFor(dbPath))
			if err != nil || holder.PID != 100 {
				t.Errorf("holder after reclaim = %+v, %v", holder, err)
			}
		})
	}
}

func TestReleaseLeavesForeignLock(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	withProcesses(t, now, 100, map[int]string{100: "becoming"})
	dbPath := filepath.Join(t.TempDir(), "becoming.db")

	lock, err := Acquire(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	writeLock(t, PathFor(dbPath), 300, "becoming", now)

	if err := lock.Release(); err != nil {
		t.Fatal(err)
	}
	if holder, err := Read(PathFor(dbPath)); err != nil || holder.PID != 300 {
		t.Errorf("Release removed another holder's lock: %+v, %v", holder, err)
	}
}
