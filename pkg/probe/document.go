package probe

import (
	"regexp"
	"strings"
)

var (
	leadingOptsRe  = regexp.MustCompile(`^(\[.*?\])(.*)$`)
	trailingOptsRe = regexp.MustCompile(`^(.*?):(.*)$`)
)

// Ref renders a module name with optional options as the argument of \usepackage or
// \documentclass: "[opts]name" and "name:opts" both become "[opts]{name}",
// anything else "{name}".
func Ref(arg string) string {
	if m := leadingOptsRe.FindStringSubmatch(arg); m != nil {
		return m[1] + "{" + m[2] + "}"
	}
	if m := trailingOptsRe.FindStringSubmatch(arg); m != nil {
		return "[" + m[2] + "]{" + m[1] + "}"
	}
	return "{" + arg + "}"
}

// Document renders the probe document loading modules under class.
func Document(class string, modules []string) string {
	var b strings.Builder
	b.WriteString(`\documentclass` + Ref(class) + "\n")
	for _, m := range modules {
		b.WriteString(`\usepackage` + Ref(m) + "\n")
	}
	b.WriteString(`\begin{document} \end{document}` + "\n")
	return b.String()
}
