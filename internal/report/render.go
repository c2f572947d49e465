package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Format selects how a comparison is printed.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatUnified  Format = "unified"
	FormatJSON     Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatMarkdown, FormatText, FormatUnified, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "diff":
		return FormatUnified, nil
	}
	return "", fmt.Errorf("unknown format %q (want markdown, text, unified or json)", s)
}

// Render renders Markdown for the terminal using glamour. A width of zero
// disables word wrapping.
func Render(markdown string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
