package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/mpvlens/internal/node"
)

var execCmd = &cobra.Command{
	Use:   "exec <command line>",
	Short: "Run one mpv command line",
	Long: `Runs a command in input.conf syntax, exactly as the console does.
Several commands may be separated with ";". Prefixes such as no-osd are
honored and ${...} properties are expanded unless the command starts
with raw.

Examples:
  mpvlens exec 'seek 10; show-text "${time-pos}"'
  mpvlens exec 'no-osd seek 10 relative'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := dial(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		line := strings.Join(args, " ")
		if err := client.CommandString(ctx, line); err != nil {
			return fmt.Errorf("%s: %w", line, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Success")
		return nil
	},
}

var getRaw bool

var getCmd = &cobra.Command{
	Use:   "get <property>",
	Short: "Print a property as a tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := dial(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		name := args[0]
		if getRaw {
			s, err := client.GetPropertyString(ctx, name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		}

		v, err := client.GetProperty(ctx, name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return node.Fprint(cmd.OutOrStdout(), name, v)
	},
}

func init() {
	getCmd.Flags().BoolVar(&getRaw, "string", false, "print mpv's own string formatting instead of the tree")
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(getCmd)
}
