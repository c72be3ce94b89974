package components

import (
	"github.com/a-h/templ"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
)

const navLink = "rounded-md px-3 py-2 text-sm font-medium text-gray-700 hover:bg-gray-100"

// Layout is the full page shell: navigation, toast region and content.
func Layout(data models.LayoutTempl) templ.Component {
	return component(func(h *html) {
		h.raw("<!DOCTYPE html>")
		h.open("html", "lang", "en")
		h.open("head")
		h.raw(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.el("title", data.Title)
		h.raw(`<script src="https://unpkg.com/htmx.org@2.0.4"></script>`)
		h.raw(`<script src="https://cdn.jsdelivr.net/npm/@tailwindcss/browser@4"></script>`)
		h.close("head")
		h.open("body", "class", "min-h-screen bg-gray-50", "hx-boost", "true")
		h.child(Navbar(data))
		h.child(Toasts(data.Toasts))
		h.open("main", "id", "content", "class", "mx-auto max-w-6xl px-4 py-8")
		h.child(data.Content)
		h.close("main")
		h.close("body")
		h.close("html")
	})
}

func Navbar(data models.LayoutTempl) templ.Component {
	return component(func(h *html) {
		h.open("nav", "class", "border-b bg-white")
		h.open("div", "class", "mx-auto flex max-w-6xl items-center justify-between px-4 py-3")
		h.el("a", "Estate", "href", models.RouteHome, "class", "text-lg font-bold text-blue-700")

		h.open("ul", "class", "flex items-center gap-1")
		for _, item := range data.Nav.Items {
			class := navLink
			if item.Name == data.ActiveNav {
				class = cx(navLink, "bg-blue-600 text-white hover:bg-blue-700")
			}
			h.open("li")
			h.el("a", item.Name, "href", item.URL, "class", class)
			h.close("li")
		}
		h.close("ul")

		if s := data.Session; s != nil {
			h.open("div", "class", "flex items-center gap-3", "id", "account")
			h.el("span", s.Username, "class", "text-sm text-gray-700", "data-user-id", s.ID)
			h.el("span", s.PrimaryRole().Label(), "class", "rounded bg-gray-100 px-2 py-0.5 text-xs text-gray-600")
			h.open("form", "method", "post", "action", "/auth/logout", "hx-post", "/auth/logout")
			h.el("button", "Log out", "type", "submit", "class", cx(navLink, "text-red-600"))
			h.close("form")
			h.close("div")
		}
		h.close("div")
		h.close("nav")
	})
}
