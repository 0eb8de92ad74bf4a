package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"assetbridge/internal/api"
	"assetbridge/internal/pathresolve"
)

func newSendCommand(ctx *commandContext) *cobra.Command {
	var destination string
	var toDefault bool
	var encode bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "send FILE...",
		Short: "Ask the bridge to copy files to the clipboard or a directory",
		Long: "Send posts FILE arguments to a running bridge. Without --to or --default-dir the files\n" +
			"are placed on the clipboard. Relative paths are made absolute against the current\n" +
			"directory unless --encode is set, in which case they are sent percent-encoded the way\n" +
			"a browser would.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := prepareSendPaths(args, encode)
			if err != nil {
				return err
			}

			c := ctx.newClient(0)
			var resp *api.BridgeResponse
			switch {
			case strings.TrimSpace(destination) != "":
				resp, err = c.CopyToDirectory(cmd.Context(), paths, destination)
			case toDefault:
				resp, err = c.CopyToDirectory(cmd.Context(), paths, "")
			default:
				resp, err = c.CopyToClipboard(cmd.Context(), paths)
			}
			if err != nil {
				return wrapUnreachable(err, c.BaseURL())
			}

			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
					return err
				}
			} else {
				renderSendResult(cmd, resp)
			}
			if !resp.Success {
				return errors.New("transfer failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&destination, "to", "", "Copy into this directory instead of the clipboard")
	cmd.Flags().BoolVar(&toDefault, "default-dir", false, "Copy into the bridge's configured default destination")
	cmd.Flags().BoolVar(&encode, "encode", false, "Percent-encode paths before sending")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw response as JSON")
	return cmd
}

func prepareSendPaths(args []string, encode bool) ([]string, error) {
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		p := arg
		if !strings.Contains(p, "://") && !strings.HasPrefix(p, "~") {
			abs, err := filepath.Abs(p)
			if err != nil {
				return nil, fmt.Errorf("resolve %q: %w", arg, err)
			}
			p = abs
		}
		if encode {
			p = pathresolve.EncodePath(filepath.ToSlash(p))
		}
		paths = append(paths, p)
	}
	return paths, nil
}

var sendColumns = []column{
	{Header: "#", AlignRight: true},
	{Header: "Status"},
	{Header: "Path"},
	{Header: "Detail"},
}

func renderSendResult(cmd *cobra.Command, resp *api.BridgeResponse) {
	stdout := cmd.OutOrStdout()
	if resp.Report == nil {
		fmt.Fprintf(stdout, "Transfer rejected: %s\n", resp.Error)
		return
	}

	rows := make([][]string, 0, len(resp.Report.Outcomes))
	for i, outcome := range resp.Report.Outcomes {
		detail := outcome.DestinationPath
		if outcome.Reason != "" {
			detail = outcome.Reason
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			outcome.Status,
			displayPath(outcome),
			detail,
		})
	}
	fmt.Fprint(stdout, renderTable(sendColumns, rows))
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%d succeeded, %d failed\n", resp.Report.SucceededCount, resp.Report.FailedCount)
	if resp.Error != "" {
		fmt.Fprintf(stdout, "Error: %s\n", resp.Error)
	}
}

func displayPath(outcome api.OutcomePayload) string {
	if outcome.ResolvedPath != "" {
		return outcome.ResolvedPath
	}
	return outcome.Path
}
