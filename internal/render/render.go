package render

import "strings"

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	tr, err := shared.checkout(opts)
	if err != nil {
		return "", err
	}
	defer shared.release(opts, tr)

	return tr.Render(content)
}

// MarkdownWithWidth renders with default options at the given width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

// Answer renders a chat answer, falling back to the raw text when
// rendering fails. Surrounding blank lines added by glamour are trimmed.
func Answer(content string, opts Options) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
