package preflight

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/minispec/visual/internal/logger"
)

// SkipEnv disables preflight checks when set to any non-empty value.
const SkipEnv = "SKIP_PREFLIGHT_CHECKS"

// RunPreflightChecks warns about every required command missing from the PATH and returns them.
// Nothing is checked when SKIP_PREFLIGHT_CHECKS is set.
func RunPreflightChecks(requiredCommands []string) []string {
	if os.Getenv(SkipEnv) != "" {
		return nil
	}

	logger.Debugf("Running preflights checks...")

	var missing []string
	for _, bin := range requiredCommands {
		if err := isBinInstalled(bin); err != nil {
			logger.Warnf("%s", err)
			missing = append(missing, bin)
		}
	}

	return missing
}

// isBinInstalled checks if given binary can be found in the PATH, or exists when given as a path.
func isBinInstalled(bin string) error {
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("\"%s\" does not seem to be installed on your system, "+
			"you have to install it before using this layout engine", bin)
	}

	return nil
}
