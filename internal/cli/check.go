package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/agenthands/factwatch/internal/model"
	"github.com/agenthands/factwatch/internal/view"
)

// exitUnsafe is the status of check when the URL is on a threat list.
const exitUnsafe = 2

func (a *app) checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <url>",
		Short: "Look a URL up on the Safe Browsing threat lists",
		Long: `Check normalizes the URL (adding http:// when no scheme is given) and
prints SAFE or UNSAFE with any matches. The exit status is 2 when the URL is
unsafe.

Example:
  factwatch check example.com
  factwatch check https://testsafebrowsing.appspot.com/s/malware.html --direct`,
		Args: cobra.ExactArgs(1),
		RunE: a.runCheck,
	}
	addRelayFlags(cmd)
	return cmd
}

type checkOutput struct {
	URL       string              `json:"url"`
	Safe      bool                `json:"safe"`
	CheckedAt time.Time           `json:"checkedAt"`
	Matches   []model.ThreatMatch `json:"matches"`
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	relay, err := a.relay(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	u := view.NewURLCheck()
	if err := u.Check(cmd.Context(), relay, args[0]); err != nil {
		return fmt.Errorf("check: %w", err)
	}
	snap := u.Snapshot()
	if !snap.HasResult() {
		return errors.New("nothing to check: url is blank")
	}

	if a.v.GetBool("json") {
		if err := writeJSON(a.out, checkOutput{
			URL:       snap.Target,
			Safe:      !snap.Unsafe(),
			CheckedAt: snap.CheckedAt,
			Matches:   snap.Matches,
		}); err != nil {
			return err
		}
	} else {
		printCheck(a.out, snap)
	}

	if snap.Unsafe() {
		return &ExitError{Code: exitUnsafe}
	}
	return nil
}

func printCheck(w io.Writer, snap view.CheckSnapshot) {
	if !snap.Unsafe() {
		fmt.Fprintf(w, "SAFE %s\n", snap.Target)
		return
	}
	fmt.Fprintf(w, "UNSAFE %s\n", snap.Target)
	for _, m := range snap.Matches {
		platform := m.PlatformType
		if platform == "" {
			platform = "ANY_PLATFORM"
		}
		target := m.ThreatURL()
		if target == "" {
			target = snap.Target
		}
		fmt.Fprintf(w, "  %s on %s: %s\n", m.ThreatType, platform, target)
	}
}
