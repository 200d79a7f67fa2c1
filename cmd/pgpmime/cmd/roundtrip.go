package cmd

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zostay/go-pgpmime/message"
	"github.com/zostay/go-pgpmime/message/walk"
	"github.com/zostay/go-pgpmime/pgpmime"
)

var (
	roundtripCmd = &cobra.Command{
		Use:   "roundtrip [message-file]",
		Short: "Shows the diff of a plaintext message rebuilt from its content",
		Long: `Extracts the body and attachments from an unencrypted message, builds a new
message from them, and prints a diff of the original against the rebuilt
message. Multipart boundaries are generated afresh, so they always differ.

With --structure, the parsed tree is copied part for part instead, keeping the
original headers and boundaries.`,
		Args: cobra.MaximumNArgs(1),
		RunE: RunRoundtrip,
	}

	roundtripStructure bool
)

func init() {
	rootCmd.AddCommand(roundtripCmd)

	roundtripCmd.Flags().BoolVar(&roundtripStructure, "structure", false, "copy the parsed tree rather than rebuild from the extracted content")
}

// rebuild returns the message as the codec would write it again.
func rebuild(msg *message.Parsed) (*message.Node, error) {
	if roundtripStructure {
		return walk.AndTransform(walk.Copy, msg)
	}

	mc, errs, err := pgpmime.ExtractMailContent(msg)
	if err != nil {
		return nil, err
	}
	warnAll(errs)

	return pgpmime.BuildPlaintextTree(*mc), nil
}

// RunRoundtrip implements the roundtrip command.
func RunRoundtrip(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, argOrStdin(args))
	if err != nil {
		return err
	}

	msg, err := message.Parse(raw, cfg.ParseOptions()...)
	if err != nil {
		return err
	}

	n, err := rebuild(msg)
	if err != nil {
		return err
	}

	rebuilt, err := n.Build()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if rebuilt == raw {
		_, err = fmt.Fprintln(out, "identical")
		return err
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(raw, rebuilt, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	log.WithField("distance", dmp.DiffLevenshtein(diffs)).Info("message changed in round trip")

	_, err = fmt.Fprintln(out, dmp.DiffPrettyText(diffs))
	return err
}
