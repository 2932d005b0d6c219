package main

import (
	"github.com/aretw0/walkthrough/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Walk through the installation in the terminal",
	Long: `Starts a walkthrough session in the terminal.
Answer the screen sharing request with ok/not-ok, then report each step with
done or problem. Anything else is sent as a message. Type exit or quit to leave;
with --session the walkthrough can be resumed later.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		plain, _ := cmd.Flags().GetBool("plain")

		app, err := buildApp(cmd, !jsonMode)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.RunSession(cmd.Context(), app, cli.RunOptions{
			JSON:      jsonMode,
			SessionID: sessionID,
			Fresh:     fresh,
			Plain:     plain,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON output, one input per line)")
	runCmd.Flags().StringP("session", "s", "", "Session ID to resume (needs a persistent store)")
	runCmd.Flags().Bool("fresh", false, "Discard the stored session before starting")
	runCmd.Flags().Bool("plain", false, "Disable colours and markdown styling")

	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
