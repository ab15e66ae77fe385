package content

import (
	"fmt"
	"regexp"
	"strings"
)

// PreviewMaxLen is the number of characters a preview keeps from the
// stripped post body before it is cut off with an ellipsis.
const PreviewMaxLen = 150

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	boldRegex       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRegex     = regexp.MustCompile(`\*(.*?)\*`)
	inlineCodeRegex = regexp.MustCompile("`(.*?)`")
	markdownSyntax  = regexp.MustCompile("[#*`]")
	newlinesRegex   = regexp.MustCompile(`\n+`)
)

// IsHTML guesses whether a post body is HTML markup rather than the
// markdown dialect. A document with at least one < and one > counts as
// HTML. Markdown with a literal <...> in it gets misdetected; the stored
// posts carry no content-type tag, so a guess is all there is.
func IsHTML(document string) bool {
	return strings.Contains(document, "<") && strings.Contains(document, ">")
}

// Render produces display markup for the full post view. HTML documents
// pass through untouched; markdown documents are rendered line by line.
func Render(document string) string {
	if document == "" {
		return ""
	}
	if IsHTML(document) {
		return document
	}
	return renderMarkdown(document)
}

// renderMarkdown handles the small dialect the editor produces: three
// header levels, blank lines, image markers and the **bold** / *italic* /
// `code` inline spans. Substitution is non-greedy and single pass - no
// nesting, no escaping.
func renderMarkdown(document string) string {
	lines := strings.Split(document, "\n")
	rendered := make([]string, 0, len(lines))

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "# "):
			rendered = append(rendered, fmt.Sprintf("<h1>%s</h1>", line[2:]))
		case strings.HasPrefix(line, "## "):
			rendered = append(rendered, fmt.Sprintf("<h2>%s</h2>", line[3:]))
		case strings.HasPrefix(line, "### "):
			rendered = append(rendered, fmt.Sprintf("<h3>%s</h3>", line[4:]))
		case strings.TrimSpace(line) == "":
			rendered = append(rendered, "<br>")
		default:
			if match := imageMarkerRegex.FindStringSubmatch(line); match != nil {
				alt := match[1]
				if alt == "" {
					alt = "Image"
				}
				rendered = append(rendered, fmt.Sprintf(`<div class="content-image"><img src="%s" alt="%s"></div>`, match[2], alt))
				continue
			}
			rendered = append(rendered, fmt.Sprintf("<p>%s</p>", renderInline(line)))
		}
	}

	return strings.Join(rendered, "\n")
}

func renderInline(line string) string {
	line = boldRegex.ReplaceAllString(line, "<strong>$1</strong>")
	line = italicRegex.ReplaceAllString(line, "<em>$1</em>")
	line = inlineCodeRegex.ReplaceAllString(line, "<code>$1</code>")
	return line
}

// Preview strips a post body down to plain text for the list view and cuts
// it off after PreviewMaxLen characters. The limit applies to the stripped
// text, not to the raw document.
func Preview(document string) string {
	var text string
	if IsHTML(document) {
		text = htmlTagRegex.ReplaceAllString(document, "")
	} else {
		text = imageMarkerRegex.ReplaceAllString(document, "")
		text = markdownSyntax.ReplaceAllString(text, "")
	}
	text = strings.TrimSpace(newlinesRegex.ReplaceAllString(text, " "))

	runes := []rune(text)
	if len(runes) > PreviewMaxLen {
		return string(runes[:PreviewMaxLen]) + "..."
	}
	return text
}
