package components

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
)

// HomePage is the public landing page: search box plus listing grid.
func HomePage(q models.PropertyQuery, props []models.Property, loadErr string) templ.Component {
	return component(func(h *html) {
		h.open("section", "class", "mb-8")
		h.el("h1", "Find your next home", "class", "text-3xl font-bold")
		h.open("form", "method", "get", "action", models.RouteHome, "class", "mt-4 flex gap-2",
			"hx-get", "/properties", "hx-target", "#listings", "hx-swap", "outerHTML", "hx-push-url", "false")
		h.open("input", "type", "search", "name", "q", "value", q.Search, "placeholder", "Search by title or address", "class", inputClass)
		h.open("input", "type", "text", "name", "city", "value", q.City, "placeholder", "City", "class", cx(inputClass, "w-48"))
		h.el("button", "Search", "type", "submit", "class", cx(buttonClass, "w-auto"))
		h.close("form")
		h.close("section")
		if loadErr != "" {
			h.open("div", "id", "listings")
			h.child(ErrorBanner(loadErr))
			h.close("div")
			return
		}
		h.child(Listings(props))
	})
}

// Listings is the grid swapped in by the search form.
func Listings(props []models.Property) templ.Component {
	return component(func(h *html) {
		h.open("div", "id", "listings")
		if len(props) == 0 {
			h.el("p", "No properties match your search.", "class", "py-12 text-center text-gray-500")
			h.close("div")
			return
		}
		h.open("div", "class", "grid gap-6 sm:grid-cols-2 lg:grid-cols-3")
		for _, p := range props {
			h.child(PropertyCard(p))
		}
		h.close("div")
		h.close("div")
	})
}

func PropertyCard(p models.Property) templ.Component {
	return component(func(h *html) {
		h.open("article", "class", "property-card overflow-hidden rounded-lg bg-white shadow", "data-id", p.ID)
		if p.ImageURL != "" {
			h.open("img", "src", p.ImageURL, "alt", p.Title, "class", "h-48 w-full object-cover", "loading", "lazy")
		}
		h.open("div", "class", "p-4")
		h.open("h2", "class", "text-lg font-semibold")
		h.el("a", p.Title, "href", "/properties/"+p.ID)
		h.close("h2")
		h.el("p", p.Address+", "+p.City, "class", "text-sm text-gray-500")
		h.el("p", formatPrice(p.Price), "class", "price mt-2 text-xl font-bold text-blue-700")
		h.el("p", facts(p), "class", "mt-1 text-sm text-gray-600")
		h.close("div")
		h.close("article")
	})
}

func PropertyDetail(p models.Property) templ.Component {
	return component(func(h *html) {
		h.open("article", "id", "property", "class", "rounded-lg bg-white p-8 shadow", "data-id", p.ID)
		h.el("a", "← Back to listings", "href", models.RouteHome, "class", "text-sm text-blue-600")
		h.el("h1", p.Title, "class", "mt-4 text-3xl font-bold")
		h.el("p", p.Address+", "+p.City, "class", "text-gray-500")
		if p.ImageURL != "" {
			h.open("img", "src", p.ImageURL, "alt", p.Title, "class", "mt-6 w-full rounded-lg")
		}
		h.open("dl", "class", "mt-6 grid grid-cols-2 gap-4 sm:grid-cols-4")
		fact(h, "Price", formatPrice(p.Price))
		fact(h, "Bedrooms", strconv.Itoa(p.Bedrooms))
		fact(h, "Bathrooms", strconv.Itoa(p.Bathrooms))
		fact(h, "Area", formatArea(p.AreaSqm))
		h.close("dl")
		if p.Status != "" {
			h.el("span", p.Status, "class", "status mt-4 inline-block rounded bg-gray-100 px-2 py-1 text-xs uppercase")
		}
		if p.Description != "" {
			h.el("p", p.Description, "class", "mt-6 whitespace-pre-line text-gray-700")
		}
		h.close("article")
	})
}

func fact(h *html, label, value string) {
	h.open("div")
	h.el("dt", label, "class", "text-xs uppercase text-gray-500")
	h.el("dd", value, "class", "text-lg font-semibold")
	h.close("div")
}

func facts(p models.Property) string {
	return strconv.Itoa(p.Bedrooms) + " bd · " + strconv.Itoa(p.Bathrooms) + " ba · " + formatArea(p.AreaSqm)
}
