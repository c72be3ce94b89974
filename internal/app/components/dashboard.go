package components

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
)

// DashboardData is what every dashboard variant renders from. Section errors
// are shown in place so one failed fetch does not blank the page.
type DashboardData struct {
	Session          models.Session
	Properties       []models.Property
	Notifications    []models.Notification
	PropertiesErr    string
	NotificationsErr string
}

func (d DashboardData) unread() int {
	n := 0
	for _, note := range d.Notifications {
		if !note.Read {
			n++
		}
	}
	return n
}

func (d DashboardData) averagePrice() float64 {
	if len(d.Properties) == 0 {
		return 0
	}
	var sum float64
	for _, p := range d.Properties {
		sum += p.Price
	}
	return sum / float64(len(d.Properties))
}

// owned returns the listings assigned to the signed-in agent.
func (d DashboardData) owned() []models.Property {
	var out []models.Property
	for _, p := range d.Properties {
		if p.AgentID == d.Session.ID {
			out = append(out, p)
		}
	}
	return out
}

func AdminDashboard(d DashboardData) templ.Component {
	return component(func(h *html) {
		dashboardHeader(h, "Admin dashboard", d.Session)
		h.open("div", "class", "grid gap-4 sm:grid-cols-3")
		stat(h, "Listings", strconv.Itoa(len(d.Properties)))
		stat(h, "Average price", formatPrice(d.averagePrice()))
		stat(h, "Unread notifications", strconv.Itoa(d.unread()))
		h.close("div")
		section(h, "agents", "All listings", func() { propertyTable(h, d.Properties, d.PropertiesErr) })
		section(h, "clients", "Notifications", func() { notificationList(h, d.Notifications, d.NotificationsErr) })
	})
}

func AgentDashboard(d DashboardData) templ.Component {
	return component(func(h *html) {
		dashboardHeader(h, "Agent dashboard", d.Session)
		mine := d.owned()
		h.open("div", "class", "grid gap-4 sm:grid-cols-2")
		stat(h, "My listings", strconv.Itoa(len(mine)))
		stat(h, "Unread messages", strconv.Itoa(d.unread()))
		h.close("div")
		section(h, "listings", "My listings", func() { propertyTable(h, mine, d.PropertiesErr) })
		section(h, "messages", "Messages", func() { notificationList(h, d.Notifications, d.NotificationsErr) })
	})
}

func UserDashboard(d DashboardData) templ.Component {
	return component(func(h *html) {
		dashboardHeader(h, "My dashboard", d.Session)
		section(h, "recommended", "Recommended for you", func() {
			if d.PropertiesErr != "" {
				h.child(ErrorBanner(d.PropertiesErr))
				return
			}
			h.child(Listings(d.Properties))
		})
		section(h, "notifications", "Notifications", func() { notificationList(h, d.Notifications, d.NotificationsErr) })
	})
}

func dashboardHeader(h *html, title string, s models.Session) {
	h.open("header", "class", "mb-6")
	h.el("h1", title, "class", "text-3xl font-bold")
	h.el("p", "Signed in as "+s.Username+" ("+s.PrimaryRole().Label()+")", "class", "text-gray-500")
	h.close("header")
}

func stat(h *html, label, value string) {
	h.open("div", "class", "stat rounded-lg bg-white p-4 shadow")
	h.el("p", label, "class", "text-xs uppercase text-gray-500")
	h.el("p", value, "class", "text-2xl font-bold")
	h.close("div")
}

func section(h *html, id, title string, body func()) {
	h.open("section", "id", id, "class", "mt-8")
	h.el("h2", title, "class", "mb-3 text-xl font-semibold")
	body()
	h.close("section")
}

func propertyTable(h *html, props []models.Property, loadErr string) {
	if loadErr != "" {
		h.child(ErrorBanner(loadErr))
		return
	}
	if len(props) == 0 {
		h.el("p", "No listings yet.", "class", "text-gray-500")
		return
	}
	h.open("table", "class", "w-full rounded-lg bg-white text-left text-sm shadow")
	h.raw(`<thead><tr><th class="p-3">Title</th><th class="p-3">City</th><th class="p-3">Price</th><th class="p-3">Status</th></tr></thead>`)
	h.open("tbody")
	for _, p := range props {
		h.open("tr", "class", "border-t", "data-id", p.ID)
		h.open("td", "class", "p-3")
		h.el("a", p.Title, "href", "/properties/"+p.ID, "class", "text-blue-600")
		h.close("td")
		h.el("td", p.City, "class", "p-3")
		h.el("td", formatPrice(p.Price), "class", "p-3")
		h.el("td", p.Status, "class", "p-3")
		h.close("tr")
	}
	h.close("tbody")
	h.close("table")
}

func notificationList(h *html, notes []models.Notification, loadErr string) {
	if loadErr != "" {
		h.child(ErrorBanner(loadErr))
		return
	}
	if len(notes) == 0 {
		h.el("p", "You're all caught up.", "class", "text-gray-500")
		return
	}
	h.open("ul", "class", "divide-y rounded-lg bg-white shadow")
	for _, n := range notes {
		class := "notification p-4"
		if !n.Read {
			class = cx(class, "bg-blue-50 font-medium")
		}
		h.open("li", "class", class, "data-read", strconv.FormatBool(n.Read))
		h.el("p", n.Title)
		h.el("p", n.Message, "class", "text-sm text-gray-600")
		h.close("li")
	}
	h.close("ul")
}
