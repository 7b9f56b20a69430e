package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func legacyCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "legacy",
		Short: "Access keys outside of any tree",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get the value of a legacy key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, found, err := o.client.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: %v", errNotFound, args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}, &cobra.Command{
		Use:   "put <key> <value>",
		Short: "Set the value of a legacy key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ack, err := o.client.Insert(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ack)
			return nil
		},
	})
	return cmd
}
