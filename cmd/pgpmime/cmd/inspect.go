package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zostay/go-pgpmime/message"
	"github.com/zostay/go-pgpmime/message/walker"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [message-file]",
	Short: "Show the MIME structure of a message",
	Args:  cobra.MaximumNArgs(1),
	RunE:  RunInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// describe summarizes a part on one line.
func describe(part *message.Parsed) string {
	mt, err := part.GetMediaType()
	if err != nil {
		mt = "(no type)"
	}

	desc := []string{mt}
	if part.IsMultipart() {
		desc = append(desc, fmt.Sprintf("boundary=%q", part.Boundary), fmt.Sprintf("parts=%d", len(part.Parts)))
	} else {
		desc = append(desc, fmt.Sprintf("bytes=%d", len(part.Content)))
	}

	if te, err := part.GetTransferEncoding(); err == nil {
		desc = append(desc, "encoding="+te)
	}

	if fn, err := part.GetFilename(); err == nil {
		desc = append(desc, fmt.Sprintf("filename=%q", fn))
	}

	return strings.Join(desc, " ")
}

// printTree writes one line per part, indented by depth.
func printTree(w io.Writer, msg *message.Parsed) error {
	var pw walker.Parts = func(depth, i int, part *message.Parsed) error {
		_, err := fmt.Fprintf(w, "%s%d: %s\n", strings.Repeat("  ", depth), i, describe(part))
		return err
	}
	return pw.Walk(msg)
}

// RunInspect implements the inspect command.
func RunInspect(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, argOrStdin(args))
	if err != nil {
		return err
	}

	msg, err := message.Parse(raw, cfg.ParseOptions()...)
	if err != nil {
		return err
	}

	for _, p := range msg.Problems {
		log.WithError(p).Warn("problem parsing header")
	}

	return printTree(cmd.OutOrStdout(), msg)
}
