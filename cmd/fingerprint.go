package cmd

import (
	"fmt"

	"link-verifier/core/reconcile"

	"github.com/spf13/cobra"
)

// fingerprintCmd prints the fingerprint stored for a title/author pair
var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint <title> <author>",
	Short: "Print the fingerprint of a video title and author",
	Long:  `Prints the value the verify command stores in the "Hashed Info" column for the given title and author.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), reconcile.Fingerprint(args[0], args[1]))
		return err
	},
}

func init() {
	RootCmd.AddCommand(fingerprintCmd)
}
