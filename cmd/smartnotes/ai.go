package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/smartnotes/internal/platform"
	"github.com/aretw0/smartnotes/pkg/ai"
)

// transformerFactory builds the AI collaborator. Tests replace it with a fake.
var transformerFactory = func(cfg ai.Config) (ai.Transformer, error) {
	return ai.NewOpenAI(cfg)
}

// withAssistant opens the session and binds the configured transformer to it.
func (a *app) withAssistant(cmd *cobra.Command, fn func(*ai.Assistant) error) error {
	t, err := transformerFactory(a.cfg.AIConfig(a.logger))
	if err != nil {
		if errors.Is(err, ai.ErrAIDisabled) {
			return fmt.Errorf("%w: set SMARTNOTES_AI_API_KEY or OPENAI_API_KEY", err)
		}
		return err
	}
	return a.withSession(cmd.Context(), func(sess *platform.Session) error {
		if !sess.Service.Preferences().AIEnabled {
			return fmt.Errorf("%w: run `smartnotes settings set aiEnabled true` first", ai.ErrAIDisabled)
		}
		return fn(ai.NewAssistant(t, sess.Service, a.logger))
	})
}

func newAICmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Summarize, improve, fact-check or translate a note",
	}
	cmd.AddCommand(
		newAISummarizeCmd(a),
		newAIImproveCmd(a),
		newAIVerifyCmd(a),
		newAITranslateCmd(a),
	)
	return cmd
}

func newAISummarizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <id>",
		Short: "Write a short summary into the note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withAssistant(cmd, func(as *ai.Assistant) error {
				n, err := as.Summarize(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n.Summary)
				return nil
			})
		},
	}
}

func newAIImproveCmd(a *app) *cobra.Command {
	var (
		all  bool
		opts ai.ImproveOptions
	)
	cmd := &cobra.Command{
		Use:   "improve <id>",
		Short: "Suggest a better text, title, summary and categories",
		Long: `Improve prints the suggestion. Pass --apply to write all of it back,
or pick parts with --text, --title, --summary and --categories.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				opts = ai.ApplyAll()
			}
			return a.withAssistant(cmd, func(as *ai.Assistant) error {
				s, _, err := as.Improve(cmd.Context(), args[0], opts)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s %s\n", titleStyle.Render("Title:"), s.SuggestedTitle)
				fmt.Fprintf(out, "%s %s\n", titleStyle.Render("Summary:"), s.Summary)
				if len(s.SuggestedCategories) > 0 {
					fmt.Fprintf(out, "%s %s\n", titleStyle.Render("Categories:"), strings.Join(s.SuggestedCategories, ", "))
				}
				if s.NewCategoryRecommendation != "" {
					fmt.Fprintf(out, "%s %s\n", titleStyle.Render("New category idea:"), s.NewCategoryRecommendation)
				}
				fmt.Fprintf(out, "\n%s\n", s.ImprovedText)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "apply", false, "apply every part of the suggestion")
	cmd.Flags().BoolVar(&opts.Text, "text", false, "apply the improved text")
	cmd.Flags().BoolVar(&opts.Title, "title", false, "apply the suggested title")
	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "apply the summary")
	cmd.Flags().BoolVar(&opts.Categories, "categories", false, "apply the suggested categories")
	return cmd
}

func newAIVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <id>",
		Short: "Fact-check the note and append the report with sources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withAssistant(cmd, func(as *ai.Assistant) error {
				v, _, err := as.VerifyFacts(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v.Markdown())
				return nil
			})
		},
	}
}

func newAITranslateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "translate <id> <language>",
		Short: "Replace the title and content with a translation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withAssistant(cmd, func(as *ai.Assistant) error {
				n, err := as.Translate(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", titleStyle.Render(n.Title), n.Content)
				return nil
			})
		},
	}
}
