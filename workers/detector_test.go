package workers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/pixelgrove/photovaultbackend/config"
	"github.com/pixelgrove/photovaultbackend/models"
)

type fakePollStateRepo struct {
	states map[string]*models.RepositoryPollState
	saves  int
}

func newFakePollStateRepo() *fakePollStateRepo {
	return &fakePollStateRepo{states: make(map[string]*models.RepositoryPollState)}
}

func (f *fakePollStateRepo) GetByPath(repoPath string) (*models.RepositoryPollState, error) {
	if s, ok := f.states[repoPath]; ok {
		cp := *s
		return &cp, nil
	}
	return &models.RepositoryPollState{RepoPath: repoPath}, nil
}

func (f *fakePollStateRepo) Save(state *models.RepositoryPollState) error {
	cp := *state
	f.states[state.RepoPath] = &cp
	f.saves++
	return nil
}

func initTestRepo(t *testing.T) (string, *git.Worktree) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}
	return dir, worktree
}

func commitFiles(t *testing.T, worktree *git.Worktree, dir string, files map[string]string, message string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		if _, err := worktree.Add(name); err != nil {
			t.Fatalf("failed to stage %s: %v", name, err)
		}
	}
	_, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "ingest test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
}

func newTestDetector(t *testing.T, dir string) (*ChangeDetector, *fakePollStateRepo) {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg.Set(config.KeyRepositoryPath, dir)
	states := newFakePollStateRepo()
	return NewChangeDetector(cfg, states), states
}

func pathSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set
}

func TestPollColdStartWalksFullTree(t *testing.T) {
	dir, worktree := initTestRepo(t)
	commitFiles(t, worktree, dir, map[string]string{
		"a.jpg":     "jpg-bytes",
		"b.PNG":     "png-bytes",
		"sub/c.gif": "gif-bytes",
		"notes.txt": "not an image",
	}, "initial import")

	detector, states := newTestDetector(t, dir)

	paths, err := detector.Poll()
	if err != nil {
		t.Fatalf("Poll returned error: %v", err)
	}

	if len(paths) != 3 {
		t.Fatalf("Poll returned %d paths (%v), want 3", len(paths), paths)
	}
	got := pathSet(paths)
	for _, rel := range []string{"a.jpg", "b.PNG", filepath.Join("sub", "c.gif")} {
		if !got[filepath.Join(detector.Cfg.RepositoryPath(), rel)] {
			t.Errorf("cold-start poll missing %s (got %v)", rel, paths)
		}
	}
	for p := range got {
		if filepath.Base(p) == "notes.txt" {
			t.Error("non-image file should be excluded from detection")
		}
	}

	if states.saves != 1 {
		t.Errorf("poll state saved %d times, want 1", states.saves)
	}
	state, _ := states.GetByPath(detector.Cfg.RepositoryPath())
	if state.LastRevision == nil {
		t.Error("poll state should record the processed revision")
	}
}

func TestPollIncrementalDetection(t *testing.T) {
	dir, worktree := initTestRepo(t)
	commitFiles(t, worktree, dir, map[string]string{
		"a.jpg": "original",
		"b.png": "untouched",
	}, "initial import")

	detector, _ := newTestDetector(t, dir)
	if _, err := detector.Poll(); err != nil {
		t.Fatalf("cold-start poll failed: %v", err)
	}

	commitFiles(t, worktree, dir, map[string]string{
		"new.png": "brand new",
		"a.jpg":   "modified content",
	}, "add and modify")

	paths, err := detector.Poll()
	if err != nil {
		t.Fatalf("incremental poll failed: %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("incremental poll returned %d paths (%v), want 2", len(paths), paths)
	}
	got := pathSet(paths)
	root := detector.Cfg.RepositoryPath()
	if !got[filepath.Join(root, "new.png")] {
		t.Errorf("added file missing from detection: %v", paths)
	}
	if !got[filepath.Join(root, "a.jpg")] {
		t.Errorf("modified file missing from detection: %v", paths)
	}
	if got[filepath.Join(root, "b.png")] {
		t.Error("unchanged file should not be detected")
	}
}

func TestPollNoChangeIsNoOp(t *testing.T) {
	dir, worktree := initTestRepo(t)
	commitFiles(t, worktree, dir, map[string]string{"a.jpg": "x"}, "initial import")

	detector, states := newTestDetector(t, dir)
	if _, err := detector.Poll(); err != nil {
		t.Fatalf("cold-start poll failed: %v", err)
	}
	savesAfterFirst := states.saves

	paths, err := detector.Poll()
	if err != nil {
		t.Fatalf("second poll failed: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("second poll returned %v, want empty", paths)
	}
	if states.saves != savesAfterFirst {
		t.Error("no-op poll must not alter the stored poll state")
	}
}
