package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"collint/internal/update"
	"collint/internal/version"
)

// ShowUpdateNoticeIfAvailable prints a one-line nudge on stderr when a
// newer release exists. Failures stay silent; linting must not depend on
// the network.
func ShowUpdateNoticeIfAvailable() {
	if version.Version == "dev" {
		return
	}
	u := GetUI()
	if u.IsJSON() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	info, err := update.CheckWithCache(ctx)
	if err != nil || !info.UpdateAvailable {
		return
	}
	fmt.Fprintln(os.Stderr, u.Styles.Subheader.Render(
		fmt.Sprintf("collint %s is available (running %s)", info.LatestVersion, info.CurrentVersion)))
}
