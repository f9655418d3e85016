package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/the-maldridge/ncomps/pkg/session"
)

var (
	compsURL      string
	forceSelect   []string
	forceUnselect []string

	showCmd = &cobra.Command{
		Use:   "show",
		Short: "Load the configured component file and print it",
		RunE:  runShow,
	}

	selectCmd = &cobra.Command{
		Use:   "select [component...]",
		Short: "Select components offline and print the resulting packages",
		RunE:  runSelect,
	}
)

func init() {
	for _, c := range []*cobra.Command{showCmd, selectCmd} {
		c.Flags().StringVar(&compsURL, "comps", "", "component file URI, overrides the config")
		rootCmd.AddCommand(c)
	}
	selectCmd.Flags().StringSliceVar(&forceSelect, "force-select", nil, "packages to pin selected")
	selectCmd.Flags().StringSliceVar(&forceUnselect, "force-unselect", nil, "packages to pin unselected")
}

func localSession(cmd *cobra.Command) (*session.Manager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if compsURL != "" {
		cfg.CompsURL = compsURL
	}
	m := session.NewManager(appLogger, cfg)
	if err := m.Bootstrap(cmd.Context()); err != nil {
		return nil, err
	}
	return m, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	m, err := localSession(cmd)
	if err != nil {
		return err
	}
	out, err := m.Render()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func runSelect(cmd *cobra.Command, args []string) error {
	m, err := localSession(cmd)
	if err != nil {
		return err
	}
	for _, name := range args {
		if err := m.Select(name); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	for _, name := range forceSelect {
		if err := m.ForceSelect(name); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	for _, name := range forceUnselect {
		if err := m.ForceUnselect(name); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	sum, err := m.Summary()
	if err != nil {
		return err
	}
	printSummary(cmd, sum)
	return nil
}

func printSummary(cmd *cobra.Command, sum session.Summary) {
	w := cmd.OutOrStdout()
	for _, name := range sum.Selected {
		fmt.Fprintln(w, name)
	}
	fmt.Fprintf(w, "%d packages, %d of %d bytes\n", len(sum.Selected), sum.SelectedSize, sum.TotalSize)
	for _, c := range sum.Compat {
		fmt.Fprintf(w, "compat: %s\n", c)
	}
}
