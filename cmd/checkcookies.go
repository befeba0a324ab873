// -- cmd/checkcookies.go --
package cmd

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/promoshot/promoshot-cli/internal/cookies"
)

// newCheckCookiesCmd creates the `check-cookies` command, a dry run of
// the cookie restore path: it tells the user whether a cookie export
// will carry a session before a run burns time launching a browser.
func newCheckCookiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-cookies <file>",
		Short: "Validates a JSON cookie export for session restore",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := homedir.Expand(args[0])
			if err != nil {
				return fmt.Errorf("invalid cookie path: %w", err)
			}

			list, err := cookies.Load(path)
			if err != nil {
				return fmt.Errorf("could not read cookie file: %w", err)
			}

			report := cookies.Validate(list)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Cookies in file:     %d\n", report.Total)
			fmt.Fprintf(out, "Valid cookies:       %d\n", report.Valid)
			fmt.Fprintf(out, "For %s:      %d\n", cookies.TargetDomainSuffix, report.DomainCookies)
			fmt.Fprintf(out, "Session cookies:     %d\n", report.SessionCookies)

			for _, defect := range report.Defects {
				fmt.Fprintf(out, "warning: cookie %d (%q) missing %s\n",
					defect.Index, defect.Name, strings.Join(defect.MissingFields, ", "))
			}

			switch {
			case !report.HasDomainCookies():
				return fmt.Errorf("no valid cookies for %s; re-export from a logged-in browser", cookies.TargetDomainSuffix)
			case !report.HasSessionCookies():
				fmt.Fprintln(out, "warning: no known session cookies found; restore may fall back to credential login")
			default:
				fmt.Fprintln(out, "Cookie file looks usable for session restore.")
			}
			return nil
		},
	}
}
