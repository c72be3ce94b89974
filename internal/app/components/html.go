// Package components renders the application's HTML as templ components.
package components

import (
	"context"
	"io"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// html accumulates the first write error so component bodies read top-down.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func component(fn func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{ctx: ctx, w: w}
		fn(h)
		return h.err
	})
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// urlAttrs hold URLs the browser may navigate to or fetch.
var urlAttrs = map[string]bool{
	"href": true, "src": true, "action": true, "formaction": true, "poster": true,
	"hx-get": true, "hx-post": true, "hx-put": true, "hx-patch": true, "hx-delete": true,
}

// open writes a start tag. attrs are name/value pairs; values are escaped and
// URL attributes are sanitized so only safe schemes survive.
func (h *html) open(tag string, attrs ...string) {
	h.raw("<" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		v := attrs[i+1]
		if urlAttrs[attrs[i]] {
			v = string(templ.URL(v))
		}
		h.raw(" " + attrs[i] + `="` + templ.EscapeString(v) + `"`)
	}
	h.raw(">")
}

func (h *html) close(tag string) {
	h.raw("</" + tag + ">")
}

// el writes a whole element with escaped text content.
func (h *html) el(tag, content string, attrs ...string) {
	h.open(tag, attrs...)
	h.text(content)
	h.close(tag)
}

func (h *html) child(c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

// cx merges tailwind classes so later ones win.
func cx(classes ...string) string {
	return twmerge.Merge(classes...)
}

var printer = message.NewPrinter(language.English)

func formatPrice(p float64) string {
	return printer.Sprintf("€%d", int64(p))
}

func formatArea(a float64) string {
	return printer.Sprintf("%.0f m²", a)
}
