package components

import (
	"github.com/a-h/templ"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
)

const (
	inputClass  = "mt-1 block w-full rounded-md border border-gray-300 px-3 py-2 text-sm focus:border-blue-500 focus:outline-none"
	buttonClass = "w-full rounded-md bg-blue-600 px-4 py-2 text-sm font-semibold text-white hover:bg-blue-700"
)

// AuthForm carries the values echoed back into a form after a failed submit.
// Passwords are never echoed.
type AuthForm struct {
	Email     string
	FirstName string
	LastName  string
	Toasts    []models.Toast
}

func SignInPage(form AuthForm) templ.Component {
	return authCard("Sign in to your account", SignInForm(form))
}

func SignUpPage(form AuthForm) templ.Component {
	return authCard("Create an account", SignUpForm(form))
}

func authCard(title string, form templ.Component) templ.Component {
	return component(func(h *html) {
		h.open("section", "class", "mx-auto mt-8 max-w-md rounded-lg bg-white p-8 shadow")
		h.el("h1", title, "class", "mb-6 text-2xl font-semibold")
		h.child(form)
		h.close("section")
	})
}

// SignInForm swaps itself on htmx submits so a failed attempt keeps the
// entered email and shows the error inline.
func SignInForm(form AuthForm) templ.Component {
	return component(func(h *html) {
		h.open("form", "id", "signin-form", "method", "post", "action", models.RouteSignIn,
			"hx-post", models.RouteSignIn, "hx-target", "this", "hx-swap", "outerHTML", "class", "space-y-4")
		inlineToasts(h, form.Toasts)
		field(h, "Email", "email", "email", form.Email, "email")
		field(h, "Password", "password", "password", "", "current-password")
		h.el("button", "Sign in", "type", "submit", "class", buttonClass)
		h.open("p", "class", "text-center text-sm text-gray-500")
		h.text("No account yet? ")
		h.el("a", "Sign up", "href", models.RouteSignUp, "class", "text-blue-600")
		h.close("p")
		h.close("form")
	})
}

func SignUpForm(form AuthForm) templ.Component {
	return component(func(h *html) {
		h.open("form", "id", "signup-form", "method", "post", "action", models.RouteSignUp,
			"hx-post", models.RouteSignUp, "hx-target", "this", "hx-swap", "outerHTML", "class", "space-y-4")
		inlineToasts(h, form.Toasts)
		h.open("div", "class", "grid grid-cols-2 gap-4")
		field(h, "First name", "firstName", "text", form.FirstName, "given-name")
		field(h, "Last name", "lastName", "text", form.LastName, "family-name")
		h.close("div")
		field(h, "Email", "email", "email", form.Email, "email")
		field(h, "Password", "password", "password", "", "new-password")
		h.el("button", "Create account", "type", "submit", "class", buttonClass)
		h.open("p", "class", "text-center text-sm text-gray-500")
		h.text("Already registered? ")
		h.el("a", "Sign in", "href", models.RouteSignIn, "class", "text-blue-600")
		h.close("p")
		h.close("form")
	})
}

func field(h *html, label, name, typ, value, autocomplete string) {
	h.open("label", "class", "block text-sm font-medium text-gray-700")
	h.text(label)
	h.open("input", "type", typ, "name", name, "value", value, "autocomplete", autocomplete, "required", "required", "class", inputClass)
	h.close("label")
}

func inlineToasts(h *html, toasts []models.Toast) {
	for _, t := range toasts {
		style := "bg-green-50 text-green-800"
		if t.Kind == models.ToastError {
			style = "bg-red-50 text-red-800"
		}
		h.el("p", t.Message, "class", cx(toastBase, "shadow-none", style), "role", "alert", "data-kind", string(t.Kind))
	}
}
