package web

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

var excessiveLinesRe = regexp.MustCompile(`\n{4,}`)

// noise is dropped when a page has no main or article element.
var noise = map[string]bool{
	"nav": true, "header": true, "footer": true, "aside": true, "script": true,
	"style": true, "noscript": true, "iframe": true, "form": true, "button": true,
}

type converter struct {
	md *md.Converter
}

func newConverter() *converter {
	c := md.NewConverter("", true, nil)
	c.Use(plugin.GitHubFlavored())
	return &converter{md: c}
}

// convert turns a page into Markdown headed by its title.
func (c *converter) convert(page string) (string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return c.md.ConvertString(page)
	}
	title := pageTitle(doc)
	out, err := c.md.ConvertString(mainContent(doc))
	if err != nil {
		return "", err
	}
	out = tidy(out)
	if title != "" && !strings.HasPrefix(out, "# ") {
		out = "# " + title + "\n\n" + out
	}
	return strings.TrimSpace(out), nil
}

func pageTitle(doc *html.Node) string {
	if n := find(doc, func(n *html.Node) bool { return n.Data == "title" }); n != nil && n.FirstChild != nil {
		return strings.TrimSpace(n.FirstChild.Data)
	}
	return ""
}

// mainContent renders the main or article element, or the body without
// navigation and scripts.
func mainContent(doc *html.Node) string {
	main := find(doc, func(n *html.Node) bool {
		if n.Data == "main" || n.Data == "article" {
			return true
		}
		for _, a := range n.Attr {
			if a.Key == "role" && a.Val == "main" {
				return true
			}
		}
		return false
	})
	if main != nil {
		return render(main)
	}

	var drop []*html.Node
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && noise[n.Data] {
			drop = append(drop, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(doc)
	for _, n := range drop {
		n.Parent.RemoveChild(n)
	}
	if body := find(doc, func(n *html.Node) bool { return n.Data == "body" }); body != nil {
		return render(body)
	}
	return render(doc)
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func render(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}

func tidy(s string) string {
	s = excessiveLinesRe.ReplaceAllString(s, "\n\n\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
