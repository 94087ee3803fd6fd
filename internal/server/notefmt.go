package server

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedCodeRe = regexp.MustCompile("(?s)```(\\w+)?\\s*\\n?(.*?)```")
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
)

// renderFieldValue converts the markdown-ish conventions the LLM writes into
// the HTML Anki renders: <math> tags become MathJax delimiters, fenced code
// blocks become <pre><code> (with a language class when one was given), and
// backtick spans become inline <code>.
func renderFieldValue(value string) string {
	value = strings.ReplaceAll(value, "<math>", `\(`)
	value = strings.ReplaceAll(value, "</math>", `\)`)

	value = fencedCodeRe.ReplaceAllStringFunc(value, func(match string) string {
		sub := fencedCodeRe.FindStringSubmatch(match)
		if sub[1] != "" {
			return fmt.Sprintf("<pre><code class=\"language-%s\">%s</code></pre>", sub[1], sub[2])
		}
		return fmt.Sprintf("<pre><code>%s</code></pre>", sub[2])
	})

	// Fenced blocks are gone by now, so remaining backticks are inline code.
	value = inlineCodeRe.ReplaceAllString(value, "<code>$1</code>")
	return value
}

// simplifyCodeBlocks flattens <pre><code> blocks to plain <code> so example
// notes stay compact when shown to the LLM.
func simplifyCodeBlocks(value string) string {
	value = strings.ReplaceAll(value, "<pre><code>", "<code>")
	value = strings.ReplaceAll(value, "</code></pre>", "</code>")
	return value
}
