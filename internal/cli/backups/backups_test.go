package backups

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/becoming/internal/cli"
	"github.com/julianstephens/becoming/internal/models"
	"github.com/julianstephens/becoming/internal/storage"
	"github.com/julianstephens/becoming/internal/storage/sqlite"
	"github.com/julianstephens/becoming/internal/tracker"
)

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "becoming.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return cli.NewContext(store, time.UTC, true)
}

func seed(t *testing.T, ctx *cli.Context) models.Persona {
	t.Helper()
	tr, err := ctx.Open()
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	p, err := tr.CreatePersona(ctx.Ctx(), "Writer", "")
	if err != nil {
		t.Fatalf("CreatePersona() failed: %v", err)
	}
	b, err := tr.CreateBenchmark(ctx.Ctx(), p.ID, "Draft", nil)
	if err != nil {
		t.Fatalf("CreateBenchmark() failed: %v", err)
	}
	a, err := tr.CreateAction(ctx.Ctx(), b.ID, tracker.ActionSpec{Title: "Write", Frequency: models.NewFrequency(models.Monday, models.Thursday)})
	if err != nil {
		t.Fatalf("CreateAction() failed: %v", err)
	}
	if _, err := tr.Toggle(ctx.Ctx(), a.ID, tr.Today()); err != nil {
		t.Fatalf("Toggle() failed: %v", err)
	}
	return p
}

func TestExportImportRoundTrip(t *testing.T) {
	src := setupTestContext(t)
	seed(t, src)

	file := filepath.Join(t.TempDir(), "export.yaml")
	if err := (&ExportCmd{File: file}).Run(src); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if !strings.Contains(string(raw), "- Monday") || !strings.Contains(string(raw), "- Thursday") {
		t.Errorf("export should list weekday names:\n%s", raw)
	}

	dst := setupTestContext(t)
	if err := (&ImportCmd{File: file}).Run(dst); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	want, err := storage.LoadDataset(src.Ctx(), src.Store)
	if err != nil {
		t.Fatalf("LoadDataset() failed: %v", err)
	}
	got, err := storage.LoadDataset(dst.Ctx(), dst.Store)
	if err != nil {
		t.Fatalf("LoadDataset() failed: %v", err)
	}
	if len(got.Personas) != 1 || len(got.Actions) != 1 || len(got.Logs) != 1 {
		t.Fatalf("imported dataset = %+v", got)
	}
	if got.Actions[0].Frequency.String() != want.Actions[0].Frequency.String() {
		t.Errorf("frequency = %s, want %s", got.Actions[0].Frequency, want.Actions[0].Frequency)
	}
	if got.Logs[0].LogDate != want.Logs[0].LogDate || got.Logs[0].Status != want.Logs[0].Status {
		t.Errorf("log = %+v, want %+v", got.Logs[0], want.Logs[0])
	}
}

func TestImport_RejectsBadDocument(t *testing.T) {
	ctx := setupTestContext(t)
	file := filepath.Join(t.TempDir(), "bad.yaml")
	content := "format: 1\napp: becoming\nbenchmarks:\n  - id: b1\n    persona_id: missing\n    title: Orphan\n    status: active\n"
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if err := (&ImportCmd{File: file}).Run(ctx); err == nil {
		t.Error("expected orphan benchmark to be rejected")
	}
}

func TestBackupCommands(t *testing.T) {
	ctx := setupTestContext(t)
	seed(t, ctx)

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}

	mgr, err := manager(ctx)
	if err != nil {
		t.Fatalf("manager() failed: %v", err)
	}
	backups, err := mgr.List()
	if err != nil || len(backups) != 1 {
		t.Fatalf("List() = %v, %v; want one backup", backups, err)
	}

	// Restoring by bare filename looks in the backup directory.
	if err := (&BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path)}).Run(ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}
	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("Load() after restore failed: %v", err)
	}
	personas, err := ctx.Store.GetAllPersonas(ctx.Ctx())
	if err != nil || len(personas) != 1 {
		t.Errorf("personas after restore = %v, %v", personas, err)
	}
}

func TestResolveBackupPath(t *testing.T) {
	dir := t.TempDir()
	name := "becoming-20240101-120000.db"
	if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	got, err := resolveBackupPath(name, dir)
	if err != nil || got != filepath.Join(dir, name) {
		t.Errorf("resolveBackupPath(bare) = %q, %v", got, err)
	}
	if _, err := resolveBackupPath("nope.db", dir); err == nil {
		t.Error("expected error for missing file")
	}
	abs := filepath.Join(dir, name)
	if got, err := resolveBackupPath(abs, t.TempDir()); err != nil || got != abs {
		t.Errorf("resolveBackupPath(abs) = %q, %v", got, err)
	}
}
