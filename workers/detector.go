package workers

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/facette/natsort"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/pixelgrove/photovaultbackend/config"
	"github.com/pixelgrove/photovaultbackend/media"
	"github.com/pixelgrove/photovaultbackend/repository"
)

// ChangeDetector polls the monitored version-controlled repository and
// yields the image files that are new or changed since the last
// successfully processed revision.
type ChangeDetector struct {
	Cfg        *config.Provider
	PollStates repository.PollStateRepositoryInterface
}

func NewChangeDetector(cfg *config.Provider, pollStates repository.PollStateRepositoryInterface) *ChangeDetector {
	return &ChangeDetector{Cfg: cfg, PollStates: pollStates}
}

// Poll synchronizes the working copy with its remote, compares the
// previous known revision to the new HEAD, and returns the absolute paths
// of new or modified image files in natural sort order.
//
// With no prior revision the entire tracked tree is returned so a freshly
// configured instance backfills its whole catalog. On any error the poll
// state is left untouched and the same work is retried next cycle.
func (d *ChangeDetector) Poll() ([]string, error) {
	repoPath := d.Cfg.RepositoryPath()

	state, err := d.PollStates.GetByPath(repoPath)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("detector: failed to open repository %s: %w", repoPath, err)
	}

	// sync is best-effort: missing remotes, credentials, or connectivity
	// must not prevent detection against the local head
	d.pull(repo, repoPath)

	headRef, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("detector: failed to resolve HEAD of %s: %w", repoPath, err)
	}
	newRevision := headRef.Hash().String()

	var paths []string
	switch {
	case state.LastRevision == nil:
		log.Printf("detector: no prior revision for %s, walking full tree at %s", repoPath, newRevision)
		paths, err = d.listTree(repo, headRef.Hash(), repoPath)
	case *state.LastRevision != newRevision:
		log.Printf("detector: revision changed %s -> %s for %s", *state.LastRevision, newRevision, repoPath)
		paths, err = d.diffRevisions(repo, *state.LastRevision, newRevision, repoPath)
	default:
		// unchanged; leave the poll state alone
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	state.LastRevision = &newRevision
	state.LastPolledAt = &now
	if err := d.PollStates.Save(state); err != nil {
		return nil, err
	}

	natsort.Sort(paths)
	return paths, nil
}

// pull fetches and merges the remote; failures are logged skips
func (d *ChangeDetector) pull(repo *git.Repository, repoPath string) {
	worktree, err := repo.Worktree()
	if err != nil {
		log.Printf("detector: skipping sync for %s, no worktree: %v", repoPath, err)
		return
	}

	opts := &git.PullOptions{RemoteName: d.Cfg.RepositoryRemote()}
	if username := d.Cfg.RepositoryUsername(); username != "" {
		opts.Auth = &githttp.BasicAuth{Username: username, Password: d.Cfg.RepositoryPassword()}
	}

	if err := worktree.Pull(opts); err != nil && err != git.NoErrAlreadyUpToDate {
		log.Printf("detector: sync with remote failed for %s, continuing with local head: %v", repoPath, err)
	}
}

// listTree returns every recognized image file in the commit's tree
func (d *ChangeDetector) listTree(repo *git.Repository, hash plumbing.Hash, repoPath string) ([]string, error) {
	commit, err := repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("detector: failed to load commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("detector: failed to load tree of %s: %w", hash, err)
	}

	var paths []string
	err = tree.Files().ForEach(func(f *object.File) error {
		if media.IsRecognizedImage(f.Name) {
			paths = append(paths, filepath.Join(repoPath, filepath.FromSlash(f.Name)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("detector: failed to walk tree of %s: %w", hash, err)
	}
	return paths, nil
}

// diffRevisions returns the new-side path of every change between the two
// revisions whose extension is on the image allow-list; adds, modifies
// and renames are all treated alike
func (d *ChangeDetector) diffRevisions(repo *git.Repository, oldRevision, newRevision, repoPath string) ([]string, error) {
	oldTree, err := revisionTree(repo, oldRevision)
	if err != nil {
		return nil, err
	}
	newTree, err := revisionTree(repo, newRevision)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTree(oldTree, newTree)
	if err != nil {
		return nil, fmt.Errorf("detector: failed to diff %s..%s: %w", oldRevision, newRevision, err)
	}

	seen := make(map[string]bool)
	var paths []string
	for _, change := range changes {
		name := change.To.Name
		if name == "" {
			// deletion; renamed-away and removed paths are not retired here
			continue
		}
		if !media.IsRecognizedImage(name) || seen[name] {
			continue
		}
		seen[name] = true
		paths = append(paths, filepath.Join(repoPath, filepath.FromSlash(name)))
	}
	return paths, nil
}

func revisionTree(repo *git.Repository, revision string) (*object.Tree, error) {
	commit, err := repo.CommitObject(plumbing.NewHash(revision))
	if err != nil {
		return nil, fmt.Errorf("detector: failed to load commit %s: %w", revision, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("detector: failed to load tree of %s: %w", revision, err)
	}
	return tree, nil
}
