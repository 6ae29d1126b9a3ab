package cli

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vk/addonkit/internal/app"
	"github.com/vk/addonkit/internal/autoload"
	"github.com/vk/addonkit/internal/watch"
	"go.yaml.in/yaml/v3"
)

func newLoadCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Load the plugin tree and register everything it declares",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, v)
			if err != nil {
				return err
			}
			res, err := a.Enable(cmd.Context())
			if err != nil {
				return runtimeError(err)
			}
			printResult(cmd.OutOrStdout(), "registered", res)
			return nil
		},
	}
}

func newListCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Load the plugin tree and list the registered entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := v.GetString("output")
			if output != "text" && output != "yaml" {
				return usageError(fmt.Errorf("invalid output %q: must be 'text' or 'yaml'", output))
			}
			a, err := newApp(cmd, v)
			if err != nil {
				return err
			}
			if _, err := a.Enable(cmd.Context()); err != nil {
				return runtimeError(err)
			}

			st := a.Status()
			if output == "yaml" {
				return printStatusYAML(cmd.OutOrStdout(), st)
			}
			return printStatusTable(cmd.OutOrStdout(), st)
		},
	}
	cmd.Flags().StringP("output", "o", "text", "Output format. Options: 'text' or 'yaml'.")
	return cmd
}

func newReloadCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Load the plugin tree, then unregister, cleanse and load it again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, v)
			if err != nil {
				return err
			}
			if _, err := a.Enable(cmd.Context()); err != nil {
				return runtimeError(err)
			}
			res, err := a.Reload(cmd.Context())
			if err != nil {
				return runtimeError(err)
			}
			printResult(cmd.OutOrStdout(), "reloaded", res)
			return nil
		},
	}
}

func newWatchCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Load the plugin tree and reload it whenever a manifest changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, v)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := a.Watch(ctx); err != nil {
				return runtimeError(err)
			}
			return nil
		},
	}
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "Quiet period before a change triggers a reload.")
	return cmd
}

func printResult(w io.Writer, verb string, res autoload.Result) {
	fmt.Fprintf(w, "%s %d entities (%d skipped, %d failed)\n", verb, res.Succeeded, res.Skipped, len(res.Failed))
	for _, f := range res.Failed {
		fmt.Fprintf(w, "  failed: %v\n", f)
	}
}

func printStatusTable(w io.Writer, st app.Status) error {
	if len(st.Registered) == 0 {
		_, err := fmt.Fprintln(w, "No entities registered.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tMODULE")
	for _, e := range st.Registered {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID, e.Kind, e.Module)
	}
	return tw.Flush()
}

func printStatusYAML(w io.Writer, st app.Status) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(st); err != nil {
		return err
	}
	return enc.Close()
}
