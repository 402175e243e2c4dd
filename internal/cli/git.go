package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"

	git "github.com/go-git/go-git/v5"

	"github.com/gantrylabs/gantry/internal/errx"
)

var ErrClone = errors.New("clone failed")

// Clones a repository shallowly into a temp dir and returns the clone
// path along with a cleanup function that removes it.
func cloneProject(ctx context.Context, url string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "gantry-clone-*")
	if err != nil {
		return "", nil, errx.Wrap(ErrClone, err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	slog.Info("cloning project", "url", url)

	if _, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:   url,
		Depth: 1,
	}); err != nil {
		cleanup()
		return "", nil, errx.Wrapf(ErrClone, "%s: %w", url, err)
	}

	return dir, cleanup, nil
}
