package git

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// LockName is the lock file name used to serialize rebuild and publish.
const LockName = "folio.lock"

// lockWarnAfter is how long Lock waits before warning about a held lock,
// and how often it repeats the warning afterwards.
var lockWarnAfter = 5 * time.Second

// LockPath places the lock inside the .git directory of the repository
// containing dir, so that "git add ." never stages it. The repository may
// be an ancestor of dir. Outside a repository it is a dotfile in dir.
func LockPath(dir string) string {
	if gitDir, ok := findGitDir(dir); ok {
		return filepath.Join(gitDir, LockName)
	}
	return filepath.Join(dir, "."+LockName)
}

func findGitDir(dir string) (string, bool) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err == nil {
		if st, ok := repo.Storer.(*filesystem.Storage); ok {
			return st.Filesystem().Root(), true
		}
	}
	// A .git directory go-git cannot open still must not be staged into.
	if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
		return filepath.Join(dir, ".git"), true
	}
	return "", false
}

// Lock acquires a file-based lock at path. It blocks until the lock is
// acquired and returns the function that releases it. While it waits it
// periodically warns on logger (nil discards) naming the lock file, since a
// process killed mid-publish leaves it behind.
func Lock(path string, logger *slog.Logger) (func(), error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	start := time.Now()
	nextWarn := start.Add(lockWarnAfter)
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(path)
			}, nil
		}

		if os.IsExist(err) {
			if now := time.Now(); !now.Before(nextWarn) {
				logger.Warn("waiting for lock; remove the file if no other folio process is running",
					"path", path, "waited", now.Sub(start).Round(time.Second))
				nextWarn = now.Add(lockWarnAfter)
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}

		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
}
