package components

import (
	"github.com/a-h/templ"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
)

const toastBase = "rounded-md px-4 py-3 text-sm shadow"

// Toasts renders the one-shot messages queued for this browser.
func Toasts(toasts []models.Toast) templ.Component {
	return component(func(h *html) { toastRegion(h, toasts, false) })
}

// OOBToasts replaces the page's toast region from an htmx fragment response.
func OOBToasts(toasts []models.Toast) templ.Component {
	return component(func(h *html) { toastRegion(h, toasts, true) })
}

func toastRegion(h *html, toasts []models.Toast, oob bool) {
	attrs := []string{"id", "toasts", "class", "fixed right-4 top-4 z-50 flex flex-col gap-2", "aria-live", "polite"}
	if oob {
		attrs = append(attrs, "hx-swap-oob", "true")
	}
	h.open("div", attrs...)
	for _, t := range toasts {
		role, style := "status", "bg-green-50 text-green-800"
		if t.Kind == models.ToastError {
			role, style = "alert", "bg-red-50 text-red-800"
		}
		h.el("div", t.Message, "class", cx(toastBase, style), "role", role, "data-kind", string(t.Kind))
	}
	h.close("div")
}

// ErrorBanner is an inline error block for sections that failed to load.
func ErrorBanner(msg string) templ.Component {
	return component(func(h *html) {
		h.el("div", msg, "class", "rounded-md bg-red-50 py-8 text-center text-red-500", "role", "alert")
	})
}

func NotFound(what string) templ.Component {
	return component(func(h *html) {
		h.open("section", "class", "py-16 text-center")
		h.el("h1", "Not found", "class", "text-2xl font-semibold")
		h.el("p", "The "+what+" you are looking for does not exist.", "class", "mt-2 text-gray-500")
		h.el("a", "Back to listings", "href", models.RouteHome, "class", "mt-6 inline-block text-blue-600")
		h.close("section")
	})
}
