package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/the-maldridge/ncomps/pkg/session"
)

var (
	remoteURL string

	remoteCmd = &cobra.Command{
		Use:   "remote",
		Short: "Drive a running compsd",
	}
)

func init() {
	remoteCmd.PersistentFlags().StringVar(&remoteURL, "url", "localhost:8080", "address of compsd")

	remoteCmd.AddCommand(
		&cobra.Command{
			Use:   "summary",
			Short: "Print the selected packages and sizes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sum, err := client().Summary(cmd.Context())
				if err != nil {
					return err
				}
				printSummary(cmd, sum)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the component set",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := client().Render(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			},
		},
		&cobra.Command{
			Use:   "undo",
			Short: "Revert the last change",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return client().Undo(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "snapshots",
			Short: "List saved snapshots",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				names, err := client().Snapshots(cmd.Context())
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			},
		},
	)

	named := []struct {
		use   string
		short string
		op    func(*session.APIClient, context.Context, string) error
	}{
		{"select", "Select a component", (*session.APIClient).Select},
		{"unselect", "Unselect a component", (*session.APIClient).Unselect},
		{"force-select", "Pin a package selected", (*session.APIClient).ForceSelect},
		{"force-unselect", "Pin a package unselected", (*session.APIClient).ForceUnselect},
		{"unforce", "Release a pinned package", (*session.APIClient).Unforce},
		{"save", "Save the selection as a snapshot", (*session.APIClient).Save},
		{"load", "Restore a saved snapshot", (*session.APIClient).Load},
	}
	for _, n := range named {
		op := n.op
		remoteCmd.AddCommand(&cobra.Command{
			Use:   n.use + " <name>",
			Short: n.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return op(client(), cmd.Context(), args[0])
			},
		})
	}

	rootCmd.AddCommand(remoteCmd)
}

func client() *session.APIClient {
	c := session.NewAPIClient(appLogger)
	c.Url = remoteURL
	return c
}
