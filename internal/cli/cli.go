package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vk/addonkit/internal/app"
)

// EnvPrefix is the prefix of environment variables read by the CLI.
const EnvPrefix = "ADDONKIT"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

func runtimeError(err error) error {
	return &ExitError{Code: 1, Message: err.Error()}
}

// Execute runs the command tree with args. Command output goes to outW, logs
// to errW. Every returned error is an *ExitError.
func Execute(args []string, outW, errW io.Writer) error {
	root := NewRootCommand(viper.New())
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(errW)

	err := root.Execute()
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Anything cobra itself rejects is a usage problem.
	return usageError(err)
}

// NewRootCommand builds the command tree bound to v.
func NewRootCommand(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "addonkit",
		Short: "Discover, load and register plugin modules",
		Long: `addonkit walks a plugin tree of HCL manifests, binds every declared class
and function to a compiled-in implementation and registers them with the host.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, v)
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("root", "r", "", "Plugin tree to load.")
	pf.String("package", "", "Import path prefix of the tree. Defaults to the root's base name.")
	pf.Bool("strict-import", false, "Abort on the first module that fails to import.")
	pf.Bool("debug", false, "Abort on the first entity that fails to register.")
	pf.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	pf.String("host-version", "", "Version reported by the host, checked against requires_host.")
	pf.StringSlice("exclude", nil, "Extra glob patterns of paths to skip.")
	pf.String("config", "", "YAML config file.")

	root.AddCommand(newLoadCommand(v), newListCommand(v), newReloadCommand(v), newWatchCommand(v))
	return root
}

// initConfig merges flags, environment and the config file into v.
func initConfig(cmd *cobra.Command, v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return usageError(err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return usageError(fmt.Errorf("reading config file: %w", err))
		}
	}
	return nil
}

// config resolves the app configuration from v.
func config(v *viper.Viper) (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		Root:            v.GetString("root"),
		Package:         v.GetString("package"),
		Exclude:         v.GetStringSlice("exclude"),
		StrictImport:    v.GetBool("strict-import"),
		Debug:           v.GetBool("debug"),
		HostVersion:     v.GetString("host-version"),
		LogFormat:       strings.ToLower(v.GetString("log-format")),
		LogLevel:        strings.ToLower(v.GetString("log-level")),
		HealthcheckPort: v.GetInt("healthcheck-port"),
		Debounce:        v.GetDuration("debounce"),
	})
	if err != nil {
		return nil, usageError(err)
	}
	return cfg, nil
}

// newApp builds the app with logs going to the command's error stream.
func newApp(cmd *cobra.Command, v *viper.Viper) (*app.App, error) {
	cfg, err := config(v)
	if err != nil {
		return nil, err
	}
	return app.NewApp(cmd.ErrOrStderr(), cfg), nil
}
