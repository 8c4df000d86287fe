package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/semaphore-sms/internal/storage"
	"github.com/samvad-hq/semaphore-sms/pkg/semaphore"
)

func (rt *cliState) sendCmd() *cobra.Command {
	var to, message string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an SMS to one or more comma separated numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := rt.dispatcher.Send(cmd.Context(), to, message)
			if err != nil {
				return err
			}
			return writeBody(cmd.OutOrStdout(), body)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "recipient number(s), comma separated")
	cmd.Flags().StringVar(&message, "message", "", "message text")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func (rt *cliState) messageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "message <id>",
		Short: "Show a single message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := rt.dispatcher.Message(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeBody(cmd.OutOrStdout(), body)
		},
	}
}

// messagesFlags maps CLI flag names to the option keys understood by
// semaphore.MessagesOptionsFromMap.
var messagesFlags = []struct {
	flag, key, usage string
}{
	{"limit", "limit", "page size (API default 100)"},
	{"page", "page", "page number (API default 1)"},
	{"start-date", "startDate", "only messages sent on or after this date"},
	{"end-date", "endDate", "only messages sent on or before this date"},
	{"status", "status", "filter by delivery status"},
	{"network", "network", "filter by carrier network"},
	{"sendername", "senderName", "filter by sender name"},
}

func (rt *cliState) messagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List sent messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw := map[string]string{}
			for _, f := range messagesFlags {
				if cmd.Flags().Changed(f.flag) {
					raw[f.key], _ = cmd.Flags().GetString(f.flag)
				}
			}
			opts, err := semaphore.MessagesOptionsFromMap(raw)
			if err != nil {
				return err
			}
			body, err := rt.dispatcher.Messages(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return writeBody(cmd.OutOrStdout(), body)
		},
	}
	for _, f := range messagesFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
	return cmd
}

func (rt *cliState) historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show sends recorded in the local journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			entries, err := rt.dispatcher.History(limit)
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}
			if entries == nil {
				entries = []storage.Entry{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries to show")
	return cmd
}
