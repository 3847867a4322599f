package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/puzzlegen/internal/sequence"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <term>...",
	Short: "Classify a number sequence offline and explain its next term",
	Example: `  puzzlegen classify 1 1 2 3 5
  puzzlegen classify "2, 6, 18, 54"
  puzzlegen classify --json 10 4 -2 -8`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		terms, err := sequence.Parse(strings.Join(args, " "))
		if err != nil {
			return err
		}
		c, err := sequence.Classify(terms)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(w, c)
		}
		fmt.Fprintf(w, "Sequence:  %s\n", joinInts(c.Terms))
		fmt.Fprintf(w, "Pattern:   %s\n", c.Kind)
		fmt.Fprintf(w, "Formula:   %s\n", c.Formula)
		fmt.Fprintf(w, "Next:      %d\n", c.NextValue)
		fmt.Fprintf(w, "Verified:  %v\n", c.Verified)
		fmt.Fprintln(w)
		fmt.Fprintln(w, c.Explanation)
		return nil
	},
}

func init() {
	classifyCmd.Flags().Bool("json", false, "Print the classification as JSON")
	// Negative terms such as -3 are arguments, not flags.
	classifyCmd.Flags().SetInterspersed(false)
}
