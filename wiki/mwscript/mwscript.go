// Package mwscript invokes the maintenance scripts that ship with a
// MediaWiki installation.
package mwscript

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mwbackup/mwbackup/internal/osexec"
)

// DefaultPHPPath is the php interpreter used when none is configured.
const DefaultPHPPath = "php"

// Runner builds php invocations of scripts under the installation's
// maintenance/ directory.
type Runner struct {
	// WikiDir is the root of the installation.
	WikiDir string

	// PHPPath overrides the php interpreter, DefaultPHPPath when empty.
	PHPPath string
}

// ScriptPath returns the path of the named script under maintenance/.
func (r *Runner) ScriptPath(script string) string {
	return filepath.Join(r.WikiDir, "maintenance", script)
}

// CheckScript verifies that the named maintenance script exists.
func (r *Runner) CheckScript(script string) error {
	if _, err := os.Stat(r.ScriptPath(script)); err != nil {
		return errors.Wrap(err, "maintenance script not found")
	}

	return nil
}

// Command returns a command running the named maintenance script with the
// provided arguments. The command runs from the installation root so the
// script can locate LocalSettings.php, in its own process group, and is
// killed when ctx is canceled.
func (r *Runner) Command(ctx context.Context, script string, args ...string) *exec.Cmd {
	php := r.PHPPath
	if php == "" {
		php = DefaultPHPPath
	}

	c := exec.CommandContext(ctx, php, append([]string{r.ScriptPath(script)}, args...)...)
	c.Dir = r.WikiDir
	osexec.OwnProcessGroup(c)

	return c
}
