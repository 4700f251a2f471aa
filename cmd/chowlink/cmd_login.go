package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and store a fresh token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.auth.Login(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged in")
			return nil
		},
	}
}
