package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/autothread/internal/autothread"
	"github.com/user/autothread/internal/types"
)

var classifyAs string

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringVar(&classifyAs, "as", "you", "display name used for the fallback title")
}

var classifyCmd = &cobra.Command{
	Use:   "classify [text]",
	Short: "Classify text the way an incoming message would be, reading stdin when no text is given",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		text := strings.Join(args, " ")
		if text == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = string(data)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("nothing to classify")
		}

		cls, err := newClassifier(cfg)
		if err != nil {
			return err
		}

		msg := &types.IncomingMessage{
			ID:      "cli",
			Type:    types.MessageTypeDefault,
			Author:  types.Author{Username: classifyAs},
			Content: text,
		}
		c := autothread.ClassifyOrFallback(cmd.Context(), cls, retryPolicy(cfg), msg)

		fmt.Fprintf(os.Stdout, "Thread name:       %s\n", autothread.ThreadName(c.ShortTitle))
		fmt.Fprintf(os.Stdout, "Has code examples: %t\n", c.HasCodeExamples)
		fmt.Fprintf(os.Stdout, "Has code fences:   %t\n", c.HasCodeFences)
		if c.NeedsFenceHint() {
			fmt.Fprintln(os.Stdout)
			fmt.Fprintln(os.Stdout, autothread.FenceHint)
		}
		return nil
	},
}
