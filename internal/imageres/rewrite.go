package imageres

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-md2docx/internal/docx"
	"github.com/alnah/go-md2docx/internal/fileutil"
	"github.com/alnah/go-md2docx/internal/mdscan"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// mdImage matches ![alt](target) and ![alt](target "title").
var mdImage = regexp.MustCompile(`!\[([^\]]*)\]\(\s*(<[^>]*>|[^)\s]+)(\s+"[^"]*")?\s*\)`)

// RewriteMarkdown downloads the remote images referenced from Markdown and
// points the references at the local copies. A failed download leaves the
// alt text. Local and data URI references are left for RewriteHTML, and
// references inside code blocks or code spans are left untouched.
func (r *Resolver) RewriteMarkdown(ctx context.Context, md string) (string, []Outcome) {
	locs := mdImage.FindAllStringSubmatchIndex(md, -1)
	if len(locs) == 0 {
		return md, nil
	}
	code := mdscan.CodeRanges(md)

	var (
		b        strings.Builder
		outcomes []Outcome
		last     int
	)
	for _, loc := range locs {
		if code.Overlaps(loc[0], loc[1]) {
			continue
		}
		alt, target := md[loc[2]:loc[3]], strings.Trim(md[loc[4]:loc[5]], "<>")
		var title string
		if loc[6] >= 0 {
			title = md[loc[6]:loc[7]]
		}
		if !fileutil.IsURL(target) {
			continue
		}
		o := r.Resolve(ctx, target)
		outcomes = append(outcomes, o)
		b.WriteString(md[last:loc[0]])
		if o.Degraded {
			b.WriteString(alt)
		} else {
			b.WriteString("![" + alt + "](<" + filepath.ToSlash(o.Path) + ">" + title + ")")
		}
		last = loc[1]
	}
	b.WriteString(md[last:])
	return b.String(), outcomes
}

// RewriteHTML resolves every <img> of an HTML fragment. Resolved images point
// at local PNG or JPEG files; the others are replaced by their alt text.
func (r *Resolver) RewriteHTML(ctx context.Context, htmlContent string) (string, []Outcome) {
	var outcomes []Outcome
	out := replaceImages(htmlContent, func(n *html.Node, src string) bool {
		o := r.Resolve(ctx, src)
		outcomes = append(outcomes, o)
		if o.Degraded {
			return false
		}
		setAttr(n, "src", o.Path)
		return true
	})
	return out, outcomes
}

// FilterUnrecognized drops images the document writer cannot embed: URLs,
// data URIs left over and files it cannot decode.
func FilterUnrecognized(htmlContent string) string {
	return replaceImages(htmlContent, func(_ *html.Node, src string) bool {
		if fileutil.IsURL(src) || fileutil.IsDataURI(src) {
			return false
		}
		_, err := docx.LoadPicture(src, "")
		return err == nil
	})
}

// RemoveAll replaces every image by its alt text.
func RemoveAll(htmlContent string) string {
	return replaceImages(htmlContent, func(*html.Node, string) bool { return false })
}

// replaceImages calls keep for each <img> with a src and replaces the
// element by its alt text when keep returns false. Images without a src are
// always replaced.
func replaceImages(htmlContent string, keep func(n *html.Node, src string) bool) string {
	if !strings.Contains(strings.ToLower(htmlContent), "<img") {
		return htmlContent
	}
	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return htmlContent
	}

	var imgs []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			imgs = append(imgs, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, img := range imgs {
		src := strings.TrimSpace(attr(img, "src"))
		if src != "" && keep(img, src) {
			continue
		}
		if alt := attr(img, "alt"); alt != "" {
			img.Parent.InsertBefore(&html.Node{Type: html.TextNode, Data: alt}, img)
		}
		img.Parent.RemoveChild(img)
	}

	out, err := renderHTML(doc, isFragment)
	if err != nil {
		return htmlContent
	}
	return out
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Fragments are wrapped in a document node for uniform traversal.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the tree back. Fragments render their children only.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder
	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// isRelativePath reports whether path names a file relative to the
// document.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if fileutil.IsURL(path) || fileutil.IsDataURI(path) || strings.HasPrefix(path, "file://") {
		return false
	}
	return !filepath.IsAbs(path)
}

// isPathUnderDir checks if absPath is dir or inside it.
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}
