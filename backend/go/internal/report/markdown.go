package report

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Message renders the report summary and converts it to markdown for the
// report's message field.
func Message(in Input) (string, error) {
	html, err := render("summary", newIndexView(in))
	if err != nil {
		return "", err
	}
	md, err := htmltomarkdown.ConvertString(string(html))
	if err != nil {
		return "", fmt.Errorf("convert summary to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}
