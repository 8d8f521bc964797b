// Package gitctx reports the git state of the document a pass is about to
// overwrite. Passes write in place with no backup, so uncommitted edits are
// worth a warning.
package gitctx

import (
	"errors"
	"fmt"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
)

// FileState is the git view of one file.
type FileState struct {
	Repo    string `json:"repo"`
	RelPath string `json:"rel_path"`
	Branch  string `json:"branch,omitempty"`
	Tracked bool   `json:"tracked"`
	Dirty   bool   `json:"dirty"`
}

// Recoverable reports whether git holds a clean copy of the file.
func (s *FileState) Recoverable() bool {
	return s != nil && s.Tracked && !s.Dirty
}

// Inspect returns the state of path. It returns nil without error when path
// is not inside a git worktree.
func Inspect(path string) (*FileState, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// bare repositories have no worktree to protect
		return nil, nil
	}
	root := wt.Filesystem.Root()
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	state := &FileState{Repo: root, RelPath: rel}
	if head, err := repo.Head(); err == nil {
		state.Branch = head.Name().Short()
	}

	st, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("worktree status: %w", err)
	}
	if fs, ok := st[rel]; ok {
		state.Tracked = fs.Worktree != git.Untracked
		state.Dirty = state.Tracked && (fs.Staging != git.Unmodified || fs.Worktree != git.Unmodified)
		return state, nil
	}
	// Status lists changed files only; a clean file is tracked when HEAD has it.
	state.Tracked = inHead(repo, rel)
	return state, nil
}

func inHead(repo *git.Repository, rel string) bool {
	head, err := repo.Head()
	if err != nil {
		return false
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return false
	}
	_, err = commit.File(rel)
	return err == nil
}
