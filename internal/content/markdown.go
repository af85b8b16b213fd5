package content

import (
	"html"
	"html/template"
	"strings"
)

// RenderMarkdown turns the small markdown subset used by posts into HTML:
// #/##/### headings, fenced code with a language label, "- " list items,
// **bold** spans and paragraphs. Everything else is escaped text.
func RenderMarkdown(src string) template.HTML {
	var b strings.Builder
	lines := strings.Split(strings.TrimSpace(src), "\n")
	inList := false

	closeList := func() {
		if inList {
			b.WriteString("</ul>\n")
			inList = false
		}
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t\r")

		if strings.HasPrefix(line, "- ") {
			if !inList {
				b.WriteString(`<ul class="post-list">` + "\n")
				inList = true
			}
			b.WriteString("<li>" + inline(line[2:]) + "</li>\n")
			continue
		}
		closeList()

		switch {
		case strings.HasPrefix(line, "```"):
			lang := strings.TrimSpace(line[3:])
			j := i + 1
			for j < len(lines) && !strings.HasPrefix(lines[j], "```") {
				j++
			}
			code := strings.Join(lines[i+1:min(j, len(lines))], "\n")
			b.WriteString(`<div class="code-block">`)
			if lang != "" {
				b.WriteString(`<div class="code-lang">` + html.EscapeString(lang) + `</div>`)
			}
			b.WriteString("<pre><code>" + html.EscapeString(code) + "</code></pre></div>\n")
			i = j
		case strings.HasPrefix(line, "### "):
			b.WriteString("<h3>" + html.EscapeString(line[4:]) + "</h3>\n")
		case strings.HasPrefix(line, "## "):
			b.WriteString("<h2>" + html.EscapeString(line[3:]) + "</h2>\n")
		case strings.HasPrefix(line, "# "):
			b.WriteString("<h1>" + html.EscapeString(line[2:]) + "</h1>\n")
		case strings.TrimSpace(line) == "":
		case strings.HasPrefix(line, "#"):
		default:
			b.WriteString("<p>" + inline(line) + "</p>\n")
		}
	}
	closeList()
	return template.HTML(b.String())
}

// inline escapes s and wraps every odd **-delimited part in <strong>.
func inline(s string) string {
	parts := strings.Split(s, "**")
	if len(parts) < 3 {
		return html.EscapeString(s)
	}
	var b strings.Builder
	for i, part := range parts {
		if i%2 == 1 && i < len(parts)-1 {
			b.WriteString("<strong>" + html.EscapeString(part) + "</strong>")
			continue
		}
		if i%2 == 1 {
			b.WriteString("**")
		}
		b.WriteString(html.EscapeString(part))
	}
	return b.String()
}
