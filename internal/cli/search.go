package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthands/factwatch/internal/model"
	"github.com/agenthands/factwatch/internal/view"
)

func (a *app) searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search published fact-checks",
		Long: `Search runs a claim search, optionally follows continuation tokens, and
prints the claims that match the rating filter.

Example:
  factwatch search covid --lang en
  factwatch search "วัคซีน" --rating false --more 2
  factwatch search election --direct --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runSearch,
	}
	cmd.Flags().String("lang", "", "language code (default: factcheck.default_lang)")
	cmd.Flags().String("rating", "", "only show claims whose rating contains this text")
	cmd.Flags().Int("more", 0, "load this many further pages")
	addRelayFlags(cmd)
	return cmd
}

type searchOutput struct {
	Query         string        `json:"query"`
	Lang          string        `json:"lang"`
	Rating        string        `json:"rating,omitempty"`
	Total         int           `json:"total"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
	Claims        []model.Claim `json:"claims"`
}

func (a *app) runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	relay, err := a.relay(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	s := view.NewSearch(cfg.FactCheck.DefaultLang, cfg.FactCheck.PageSize)
	if err := s.Search(cmd.Context(), relay, query, a.v.GetString("lang")); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	for i := 0; i < a.v.GetInt("more") && s.Snapshot().NextToken != ""; i++ {
		if err := s.LoadMore(cmd.Context(), relay); err != nil {
			return fmt.Errorf("load more: %w", err)
		}
	}
	s.SetFilter(a.v.GetString("rating"))

	snap := s.Snapshot()
	if snap.State == view.SearchIdle {
		return fmt.Errorf("nothing to search: query is blank")
	}
	if a.v.GetBool("json") {
		return writeJSON(a.out, searchOutput{
			Query:         snap.Query,
			Lang:          snap.Lang,
			Rating:        snap.Filter,
			Total:         len(snap.Claims),
			NextPageToken: snap.NextToken,
			Claims:        snap.Filtered,
		})
	}
	printClaims(a.out, snap)
	return nil
}

func printClaims(w io.Writer, snap view.SearchSnapshot) {
	fmt.Fprintf(w, "Showing %d of %d claims", len(snap.Filtered), len(snap.Claims))
	if snap.NextToken != "" {
		fmt.Fprint(w, " (more available)")
	}
	fmt.Fprintln(w)

	for i, c := range snap.Filtered {
		text := c.Text
		if text == "" {
			text = "(no claim text)"
		}
		fmt.Fprintf(w, "\n%d. %s\n", i+1, text)
		fmt.Fprintf(w, "   Claimant: %s", orDash(c.Claimant))
		if c.ClaimDate != "" {
			fmt.Fprintf(w, "  Date: %s", c.ClaimDate)
		}
		fmt.Fprintln(w)
		for _, r := range c.ClaimReview {
			lang := r.LanguageCode
			if lang == "" {
				lang = snap.Lang
			}
			fmt.Fprintf(w, "   [%s] %s (%s, reviewed %s)\n", orDash(r.TextualRating), orDash(r.Reviewer()), lang, orDash(r.ReviewDate))
			if r.URL != "" {
				fmt.Fprintf(w, "       %s\n", r.URL)
			}
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
