// Package ai provides the text transforms offered on a note (summary, rewrite,
// fact check, translation) and applies their results to a core.Service.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAICollaborator wraps every failure of the remote model: timeouts, remote errors, malformed replies.
	ErrAICollaborator = errors.New("ai collaborator failure")

	// ErrAIDisabled is returned when the AI preference is off or no credentials are configured.
	ErrAIDisabled = errors.New("ai features are disabled")
)

// Suggestion is the result of Improve.
type Suggestion struct {
	Summary                   string   `json:"summary"`
	ImprovedText              string   `json:"improvedText"`
	SuggestedTitle            string   `json:"suggestedTitle"`
	SuggestedCategories       []string `json:"suggestedCategories"`
	NewCategoryRecommendation string   `json:"newCategoryRecommendation,omitempty"`
}

// Source is a citation returned by VerifyFacts.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Verification is the annotated text of a fact check plus its citations.
type Verification struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// Markdown renders the annotated text followed by a source list, skipping sources without a URL.
func (v Verification) Markdown() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(v.Text))
	var lines []string
	for _, s := range v.Sources {
		if strings.TrimSpace(s.URL) == "" {
			continue
		}
		title := strings.TrimSpace(s.Title)
		if title == "" {
			title = "Source"
		}
		lines = append(lines, fmt.Sprintf("- [%s](%s)", title, s.URL))
	}
	if len(lines) > 0 {
		b.WriteString("\n\n**Sources:**\n")
		b.WriteString(strings.Join(lines, "\n"))
	}
	return b.String()
}

// Translation is the result of Translate.
type Translation struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Transformer is the remote text collaborator. Every call is stateless and may fail.
type Transformer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
	Improve(ctx context.Context, title, content string, categories []string) (Suggestion, error)
	VerifyFacts(ctx context.Context, content string) (Verification, error)
	Translate(ctx context.Context, title, content, language string) (Translation, error)
}

// restrictCategories keeps only suggestions that name an existing category, in its canonical spelling.
func restrictCategories(suggested, existing []string) []string {
	out := make([]string, 0, len(suggested))
	seen := make(map[string]struct{})
	for _, s := range suggested {
		for _, e := range existing {
			if !strings.EqualFold(strings.TrimSpace(s), e) {
				continue
			}
			if _, ok := seen[e]; !ok {
				seen[e] = struct{}{}
				out = append(out, e)
			}
			break
		}
	}
	return out
}
