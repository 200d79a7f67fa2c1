package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zostay/go-pgpmime/engine"
	"github.com/zostay/go-pgpmime/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Act as a remote encryption engine on standard input and output",
	Long: `Reads encryption and decryption requests as lines of JSON on standard input
and writes the replies to standard output, using the configured keyrings. This
is the other end of the remote engine.`,
	Args: cobra.NoArgs,
	RunE: RunServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// RunServe implements the serve command.
func RunServe(cmd *cobra.Command, _ []string) error {
	if cfg.Engine.Kind == config.EngineRemote {
		return fmt.Errorf("serve needs the %s engine, not %s", config.EngineOpenPGP, config.EngineRemote)
	}

	eng, err := newOpenPGP()
	if err != nil {
		return err
	}

	log.Info("serving remote engine requests")
	return engine.Serve(cmd.Context(), eng, cmd.InOrStdin(), cmd.OutOrStdout(), log)
}
