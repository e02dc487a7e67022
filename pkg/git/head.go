package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// HeadCommit returns the commit hash HEAD points to in the repository
// containing dir.
func HeadCommit(dir string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open repository: %w", err)
	}
	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}
