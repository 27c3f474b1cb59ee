package main

import (
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "validate <address>",
		Short:   "Check an address with the Mailgun validation service",
		Args:    cobra.ExactArgs(1),
		Example: `  mailgun-lite validate james.earl.jones@gmail.com`,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		client, err := a.client()
		if err != nil {
			return err
		}

		resp, err := client.Validate(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if resp.DidYouMean != nil {
			a.logger.Info("validation suggested a correction", "address", resp.Address, "did_you_mean", *resp.DidYouMean)
		}
		return printJSON(cmd.OutOrStdout(), resp)
	})
	return cmd
}
