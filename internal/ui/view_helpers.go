package ui

import "strings"

// pageHeader is the title, an optional dim subtitle and a rule across the page
func pageHeader(title, subtitle string, width int) string {
	var b strings.Builder
	b.WriteString(RenderTitle(title) + "\n")
	if subtitle != "" {
		b.WriteString(RenderDim(subtitle) + "\n")
	}
	b.WriteString(strings.Repeat("─", width) + "\n\n")
	return b.String()
}

// framedPage draws content in the main border with the key help centered in a
// one-line box underneath
func framedPage(content, help string, layout Layout) string {
	main := BorderedBox(layout).Render(content)
	footer := HelpBox(layout).Render(centered(help, layout.InnerWidth))
	return main + "\n" + footer
}

func centered(text string, width int) string {
	pad := (width - StringWidth(text)) / 2
	if pad <= 0 {
		return text
	}
	return strings.Repeat(" ", pad) + text
}
