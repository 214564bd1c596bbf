// Package version keeps one git repository per trade and snapshots the five
// workflow documents into it. A slot with no file in a commit means the
// document did not exist yet at that point.
package version

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"tradedocs/api/internal/store"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	authorName  = "tradedocs"
	authorEmail = "tradedocs@localhost"
)

type Service struct {
	baseDir string
	lockMu  sync.Mutex
	locks   map[string]*sync.Mutex
}

func New(baseDir string) *Service {
	return &Service{
		baseDir: baseDir,
		locks:   make(map[string]*sync.Mutex),
	}
}

// EnsureTradeRepo initializes the version repository of a trade. Calling it
// for an existing repository is a no-op.
func (s *Service) EnsureTradeRepo(tradeID string) error {
	lock := s.tradeLock(tradeID)
	lock.Lock()
	defer lock.Unlock()

	path := s.repoPath(tradeID)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat repo path: %w", err)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create repo dir: %w", err)
	}

	repo, err := git.PlainInit(path, false)
	if err != nil {
		return fmt.Errorf("init repo: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	hash, err := worktree.Commit("Initialize trade", &git.CommitOptions{
		AllowEmptyCommits: true,
		Author:            signature(),
	})
	if err != nil {
		return fmt.Errorf("commit baseline: %w", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("main"), hash)); err != nil {
		return fmt.Errorf("set main branch ref: %w", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("main"))); err != nil {
		return fmt.Errorf("set HEAD to main: %w", err)
	}
	return nil
}

// CommitSnapshot writes the given documents into the trade's repository and
// commits them. docs maps a slot to its content; slots missing from the map
// have their file removed so the commit records the document as absent.
// Committing an unchanged state is a no-op returning the current head.
func (s *Service) CommitSnapshot(tradeID string, docs map[string]string, message string) (store.VersionInfo, error) {
	lock := s.tradeLock(tradeID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(tradeID))
	if err != nil {
		return store.VersionInfo{}, fmt.Errorf("open repo: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return store.VersionInfo{}, fmt.Errorf("open worktree: %w", err)
	}
	root := worktree.Filesystem.Root()

	existing, err := slotFilesOnDisk(root)
	if err != nil {
		return store.VersionInfo{}, err
	}
	for _, name := range existing {
		slot := strings.TrimSuffix(name, ".html")
		if _, ok := docs[slot]; ok {
			continue
		}
		if _, err := worktree.Remove(name); err != nil {
			return store.VersionInfo{}, fmt.Errorf("remove %s: %w", name, err)
		}
	}
	for slot, content := range docs {
		name := slot + ".html"
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			return store.VersionInfo{}, fmt.Errorf("write %s: %w", name, err)
		}
		if _, err := worktree.Add(name); err != nil {
			return store.VersionInfo{}, fmt.Errorf("git add %s: %w", name, err)
		}
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{Author: signature()})
	if errors.Is(err, git.ErrEmptyCommit) {
		return s.head(repo)
	}
	if err != nil {
		return store.VersionInfo{}, fmt.Errorf("commit snapshot: %w", err)
	}

	commitObj, err := repo.CommitObject(hash)
	if err != nil {
		return store.VersionInfo{}, fmt.Errorf("read commit object: %w", err)
	}
	return toVersionInfo(commitObj), nil
}

// History lists the trade's version timeline, newest first.
func (s *Service) History(tradeID string, limit int) ([]store.VersionInfo, error) {
	lock := s.tradeLock(tradeID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(tradeID))
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	ref, err := repo.Reference(plumbing.NewBranchReferenceName("main"), true)
	if err != nil {
		return nil, fmt.Errorf("resolve main: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	items := make([]store.VersionInfo, 0, limit)
	count := 0
	err = iter.ForEach(func(commitObj *object.Commit) error {
		items = append(items, toVersionInfo(commitObj))
		count++
		if limit > 0 && count >= limit {
			return io.EOF
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("iterate log: %w", err)
	}
	return items, nil
}

// SnapshotAt returns the documents recorded in one commit, keyed by slot.
// Slots with no file in that commit are left out of the map.
func (s *Service) SnapshotAt(tradeID, hash string) (map[string]string, error) {
	lock := s.tradeLock(tradeID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(tradeID))
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	resolvedHash, err := resolveHash(repo, hash)
	if err != nil {
		return nil, err
	}
	commitObj, err := repo.CommitObject(resolvedHash)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", hash, err)
	}
	tree, err := commitObj.Tree()
	if err != nil {
		return nil, fmt.Errorf("read commit tree: %w", err)
	}

	docs := map[string]string{}
	err = tree.Files().ForEach(func(file *object.File) error {
		if !strings.HasSuffix(file.Name, ".html") {
			return nil
		}
		content, err := file.Contents()
		if err != nil {
			return fmt.Errorf("read %s: %w", file.Name, err)
		}
		docs[strings.TrimSuffix(file.Name, ".html")] = content
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteTradeRepo removes the trade's repository from disk.
func (s *Service) DeleteTradeRepo(tradeID string) error {
	lock := s.tradeLock(tradeID)
	lock.Lock()
	defer lock.Unlock()

	if err := os.RemoveAll(s.repoPath(tradeID)); err != nil {
		return fmt.Errorf("delete repo: %w", err)
	}
	return nil
}

func (s *Service) head(repo *git.Repository) (store.VersionInfo, error) {
	ref, err := repo.Reference(plumbing.NewBranchReferenceName("main"), true)
	if err != nil {
		return store.VersionInfo{}, fmt.Errorf("resolve main: %w", err)
	}
	commitObj, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return store.VersionInfo{}, fmt.Errorf("read head commit: %w", err)
	}
	return toVersionInfo(commitObj), nil
}

func (s *Service) repoPath(tradeID string) string {
	return filepath.Join(s.baseDir, tradeID)
}

func (s *Service) tradeLock(tradeID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.locks[tradeID]
	if ok {
		return lock
	}
	lock = &sync.Mutex{}
	s.locks[tradeID] = lock
	return lock
}

func slotFilesOnDisk(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read repo dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func signature() *object.Signature {
	return &object.Signature{
		Name:  authorName,
		Email: authorEmail,
		When:  time.Now(),
	}
}

func toVersionInfo(commitObj *object.Commit) store.VersionInfo {
	return store.VersionInfo{
		Hash:      commitObj.Hash.String()[:7],
		Message:   commitObj.Message,
		CreatedAt: commitObj.Author.When,
	}
}

func resolveHash(repo *git.Repository, hash string) (plumbing.Hash, error) {
	if len(hash) == 40 {
		return plumbing.NewHash(hash), nil
	}
	resolved, err := repo.ResolveRevision(plumbing.Revision(hash))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve hash %s: %w", hash, err)
	}
	return *resolved, nil
}
