package shred

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

func (e *chmodEscalator) escalate(ctx context.Context, name string) error {
	// Replace the access entries of the current user with
	// modify permission, and drop the denying ones.
	if _, ok := e.fs.(*afero.OsFs); ok {
		user := os.Getenv("USERNAME")
		cmd := exec.CommandContext(ctx, "icacls", name,
			"/grant:r", user+":M", "/remove:d", user)
		if out, err := cmd.CombinedOutput(); err != nil {
			return errors.Wrapf(err, "icacls: %s",
				strings.TrimSpace(string(out)))
		}
	}

	// The write bit maps to the read-only attribute here.
	_, err := e.chmod(name)
	return err
}
