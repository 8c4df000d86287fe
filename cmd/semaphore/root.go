package main

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/semaphore-sms/internal/app"
	"github.com/samvad-hq/semaphore-sms/internal/config"
	"github.com/samvad-hq/semaphore-sms/internal/logger"
)

const longHelp = `Command line access to the Semaphore SMS API.

Credentials and defaults are read from SEMAPHORE_API_KEY, SEMAPHORE_SENDER_NAME
and SEMAPHORE_BASE_URL (or a .env file); flags override them. Every command
prints the API's response body unchanged.`

var exampleUsage = `  semaphore balance
  semaphore send --to 09171234567,09181234567 --message "Server is back up"
  semaphore messages --limit 20 --status Sent
  semaphore message 12345`

// globalFlags are the overrides shared by every subcommand.
type globalFlags struct {
	apiKey  string
	baseURL string
	sender  string
	timeout time.Duration
}

// cliState carries what the pre-run hook built for the subcommand.
type cliState struct {
	flags      globalFlags
	dispatcher *app.Dispatcher
	stderr     io.Writer
}

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// execute runs the CLI with args and always releases what setup opened,
// including when the subcommand fails.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, rt := newRootCmd()
	rt.stderr = stderr
	defer rt.teardown()

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCmd() (*cobra.Command, *cliState) {
	rt := &cliState{}

	root := &cobra.Command{
		Use:           "semaphore",
		Short:         "Send SMS and inspect a Semaphore account",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !needsDispatcher(cmd) {
				return nil
			}
			return rt.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&rt.flags.apiKey, "api-key", "", "API key (overrides SEMAPHORE_API_KEY)")
	pf.StringVar(&rt.flags.baseURL, "base-url", "", "API root (overrides SEMAPHORE_BASE_URL)")
	pf.StringVar(&rt.flags.sender, "sender", "", "sender name used for sending (overrides SEMAPHORE_SENDER_NAME)")
	pf.DurationVar(&rt.flags.timeout, "timeout", 0, "HTTP timeout (overrides HTTP_TIMEOUT_SECONDS)")

	root.AddCommand(
		rt.rawCmd("balance", "Show the account balance", (*app.Dispatcher).Balance),
		rt.rawCmd("account", "Show account details", (*app.Dispatcher).Account),
		rt.rawCmd("users", "List users attached to the account", (*app.Dispatcher).Users),
		rt.rawCmd("sendernames", "List registered sender names", (*app.Dispatcher).SenderNames),
		rt.rawCmd("transactions", "List credit transactions", (*app.Dispatcher).Transactions),
		rt.sendCmd(),
		rt.messageCmd(),
		rt.messagesCmd(),
		rt.historyCmd(),
	)
	return root, rt
}

// needsDispatcher reports whether cmd talks to the API; cobra's built-in
// help and completion commands do not.
func needsDispatcher(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// setup loads configuration, applies flag overrides and builds the dispatcher.
func (rt *cliState) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("api-key") {
		cfg.APIKey = rt.flags.apiKey
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = rt.flags.baseURL
	}
	if flags.Changed("sender") {
		cfg.SenderName = rt.flags.sender
	}
	if flags.Changed("timeout") {
		if rt.flags.timeout <= 0 {
			return fmt.Errorf("--timeout must be positive")
		}
		cfg.HTTPTimeout = rt.flags.timeout
	}

	log, err := logger.InitWriter(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log.DebugObj("semaphore cli starting", "config", cfg.Redacted())

	d, err := app.NewDispatcherFromConfig(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	rt.dispatcher = d
	return nil
}

func (rt *cliState) teardown() {
	if rt.dispatcher != nil {
		if err := rt.dispatcher.Close(); err != nil {
			fmt.Fprintf(rt.stderr, "semaphore: close: %v\n", err)
		}
		rt.dispatcher = nil
	}
	_ = logger.Close()
}

// rawCmd builds an argument-less command that prints one API response.
func (rt *cliState) rawCmd(use, short string, call func(*app.Dispatcher, context.Context) ([]byte, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := call(rt.dispatcher, cmd.Context())
			if err != nil {
				return err
			}
			return writeBody(cmd.OutOrStdout(), body)
		},
	}
}

func writeBody(w io.Writer, body []byte) error {
	if _, err := w.Write(body); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
