// Package richtext renders product and order descriptions for the terminal.
// Backend descriptions may be Markdown or HTML from the admin editor; both
// go through glamour.
package richtext

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the wrap width when the terminal width is unknown.
const DefaultWidth = 80

// RenderMarkdown renders Markdown for terminal display using glamour.
func RenderMarkdown(md string) (string, error) {
	return RenderMarkdownWithWidth(md, DefaultWidth)
}

// RenderMarkdownWithWidth renders Markdown for terminal display with a custom width.
func RenderMarkdownWithWidth(md string, width int) (string, error) {
	if md == "" {
		return "", nil
	}
	if width <= 0 {
		width = DefaultWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	out, err := r.Render(md)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}

// RenderDescription renders a description that may be HTML or Markdown.
// On renderer failure the plain Markdown is returned.
func RenderDescription(s string, width int) string {
	md := s
	if IsHTML(s) {
		md = HTMLToMarkdown(s)
	}
	out, err := RenderMarkdownWithWidth(md, width)
	if err != nil {
		return md
	}
	return out
}

var (
	reHeading    = regexp.MustCompile(`(?is)<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	reBlockquote = regexp.MustCompile(`(?is)<blockquote[^>]*>(.*?)</blockquote>`)
	reUL         = regexp.MustCompile(`(?is)<ul[^>]*>(.*?)</ul>`)
	reOL         = regexp.MustCompile(`(?is)<ol[^>]*>(.*?)</ol>`)
	reLI         = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)
	reParagraph  = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	reBreak      = regexp.MustCompile(`(?i)<br\s*/?\s*>`)
	reRule       = regexp.MustCompile(`(?i)<hr\s*/?\s*>`)
	reStrong     = regexp.MustCompile(`(?is)<(?:strong|b)(?:\s[^>]*)?>(.*?)</(?:strong|b)>`)
	reEm         = regexp.MustCompile(`(?is)<(?:em|i)(?:\s[^>]*)?>(.*?)</(?:em|i)>`)
	reCode       = regexp.MustCompile(`(?is)<code[^>]*>(.*?)</code>`)
	reLink       = regexp.MustCompile(`(?is)<a[^>]*href="([^"]*)"[^>]*>(.*?)</a>`)
	reImg        = regexp.MustCompile(`(?i)<img[^>]*src="([^"]*)"[^>]*>`)
	reImgAlt     = regexp.MustCompile(`(?i)alt="([^"]*)"`)
	reStrike     = regexp.MustCompile(`(?is)<(?:del|s|strike)(?:\s[^>]*)?>(.*?)</(?:del|s|strike)>`)
	reTag        = regexp.MustCompile(`<[^>]+>`)
	reBlankRuns  = regexp.MustCompile(`\n{3,}`)
	reAnyTag     = regexp.MustCompile(`<[a-zA-Z][^>]*>`)
)

// HTMLToMarkdown converts the subset of HTML produced by rich text editors
// to Markdown. Unknown tags are stripped.
func HTMLToMarkdown(html string) string {
	if html == "" {
		return ""
	}
	html = strings.TrimSpace(html)

	html = reHeading.ReplaceAllStringFunc(html, func(s string) string {
		m := reHeading.FindStringSubmatch(s)
		level, _ := strconv.Atoi(m[1])
		return strings.Repeat("#", level) + " " + strings.TrimSpace(m[2]) + "\n\n"
	})

	html = reBlockquote.ReplaceAllStringFunc(html, func(s string) string {
		m := reBlockquote.FindStringSubmatch(s)
		lines := strings.Split(strings.TrimSpace(m[1]), "\n")
		for i, line := range lines {
			lines[i] = "> " + strings.TrimSpace(line)
		}
		return strings.Join(lines, "\n") + "\n\n"
	})

	html = reUL.ReplaceAllStringFunc(html, func(s string) string {
		return listItems(reUL.FindStringSubmatch(s)[1], func(int) string { return "- " })
	})
	html = reOL.ReplaceAllStringFunc(html, func(s string) string {
		return listItems(reOL.FindStringSubmatch(s)[1], func(i int) string { return strconv.Itoa(i+1) + ". " })
	})

	html = reParagraph.ReplaceAllString(html, "$1\n\n")
	html = reBreak.ReplaceAllString(html, "\n")
	html = reRule.ReplaceAllString(html, "\n---\n\n")

	html = reStrong.ReplaceAllString(html, "**$1**")
	html = reEm.ReplaceAllString(html, "*$1*")
	html = reCode.ReplaceAllString(html, "`$1`")
	html = reLink.ReplaceAllString(html, "[$2]($1)")
	html = reImg.ReplaceAllStringFunc(html, func(s string) string {
		src := reImg.FindStringSubmatch(s)[1]
		alt := ""
		if m := reImgAlt.FindStringSubmatch(s); m != nil {
			alt = m[1]
		}
		return "![" + alt + "](" + src + ")"
	})
	html = reStrike.ReplaceAllString(html, "~~$1~~")

	html = reTag.ReplaceAllString(html, "")
	html = unescapeHTML(html)
	html = reBlankRuns.ReplaceAllString(html, "\n\n")

	return strings.TrimSpace(html)
}

func listItems(inner string, marker func(int) string) string {
	items := reLI.FindAllStringSubmatch(inner, -1)
	out := make([]string, 0, len(items))
	for i, item := range items {
		out = append(out, marker(i)+strings.TrimSpace(item[1]))
	}
	return strings.Join(out, "\n") + "\n\n"
}

var htmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", "\"",
	"&#39;", "'",
	"&apos;", "'",
	"&nbsp;", " ",
)

func unescapeHTML(s string) string {
	return htmlEntities.Replace(s)
}

// IsHTML reports whether s contains an HTML tag.
func IsHTML(s string) bool {
	return s != "" && reAnyTag.MatchString(s)
}
