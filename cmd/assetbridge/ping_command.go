package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newPingCommand(ctx *commandContext) *cobra.Command {
	var timeout time.Duration
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the bridge answers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := ctx.newClient(timeout)
			started := time.Now()
			resp, err := c.Ping(cmd.Context())
			if err != nil {
				return wrapUnreachable(err, c.BaseURL())
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s at %s (%s, %s)\n",
				resp.Service, resp.Status, c.BaseURL(), resp.Version, time.Since(started).Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Second, "Give up after this long")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw response as JSON")
	return cmd
}
