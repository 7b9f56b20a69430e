package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"tespkg.in/sledkv/pkg/seal"
)

func healthCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the store health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			healthy, err := o.client.HealthCheck(cmd.Context())
			if err != nil {
				return err
			}
			if !healthy {
				return fmt.Errorf("store at %v is unhealthy", o.client.Address())
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}

func treesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "trees",
		Short: "List all trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trees, err := o.client.ListAllTrees(cmd.Context())
			if err != nil {
				return err
			}
			for _, tree := range trees {
				fmt.Fprintln(cmd.OutOrStdout(), tree)
			}
			return nil
		},
	}
}

func keysCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "keys <tree>",
		Short: "List the keys of a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := o.client.TreeListKeys(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
}

func getCmd(o *options) *cobra.Command {
	var (
		open     bool
		password string
	)
	cmd := &cobra.Command{
		Use:   "get <tree> <key>",
		Short: "Get the value of a key in a tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, found, err := o.client.TreeGet(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: %v/%v", errNotFound, args[0], args[1])
			}
			if open {
				if value, err = openValue(value, password); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
	cmd.Flags().BoolVar(&open, "open", false, "Decrypt a value stored with put --seal")
	cmd.Flags().StringVar(&password, "password", "", "Seal password, use "+seal.PasswordEnvName+" env if not given")
	return cmd
}

func putCmd(o *options) *cobra.Command {
	var (
		sealed   bool
		password string
	)
	cmd := &cobra.Command{
		Use:   "put <tree> <key> <value>",
		Short: "Set the value of a key in a tree",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := args[2]
			if sealed {
				var err error
				if value, err = sealValue(value, password); err != nil {
					return err
				}
			}
			ack, err := o.client.TreeInsert(cmd.Context(), args[0], args[1], value)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ack)
			return nil
		},
	}
	cmd.Flags().BoolVar(&sealed, "seal", false, "Encrypt the value before it is sent")
	cmd.Flags().StringVar(&password, "password", "", "Seal password, use "+seal.PasswordEnvName+" env if not given")
	return cmd
}

func delCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "del <tree> <key>",
		Short: "Delete a key from a tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ack, err := o.client.TreeDelete(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ack)
			return nil
		},
	}
}

func sealPassword(password string) (string, error) {
	if password != "" {
		return password, nil
	}
	return seal.PasswordFromEnv()
}

func sealValue(value, password string) (string, error) {
	p, err := sealPassword(password)
	if err != nil {
		return "", err
	}
	return seal.Seal(value, p)
}

func openValue(value, password string) (string, error) {
	p, err := sealPassword(password)
	if err != nil {
		return "", err
	}
	return seal.Open(value, p)
}
