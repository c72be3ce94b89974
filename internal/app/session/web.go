package session

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
)

// FlashNotifier queues toasts as flashes in the browser's cookie session so
// they survive the redirect that usually follows an auth action.
type FlashNotifier struct {
	session sessions.Session
	onError func(error)
}

func NewFlashNotifier(s sessions.Session, onError func(error)) *FlashNotifier {
	if onError == nil {
		onError = func(error) {}
	}
	return &FlashNotifier{session: s, onError: onError}
}

func (n *FlashNotifier) Success(msg string) { n.push(models.Toast{Kind: models.ToastSuccess, Message: msg}) }
func (n *FlashNotifier) Error(msg string)   { n.push(models.Toast{Kind: models.ToastError, Message: msg}) }

func (n *FlashNotifier) push(t models.Toast) {
	raw, err := json.Marshal(t)
	if err != nil {
		n.onError(err)
		return
	}
	n.session.AddFlash(string(raw))
	if err := n.session.Save(); err != nil {
		n.onError(err)
	}
}

// Drain pops every queued toast.
func (n *FlashNotifier) Drain() []models.Toast {
	flashes := n.session.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	if err := n.session.Save(); err != nil {
		n.onError(err)
	}
	toasts := make([]models.Toast, 0, len(flashes))
	for _, f := range flashes {
		raw, ok := f.(string)
		if !ok {
			continue
		}
		var t models.Toast
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			continue
		}
		toasts = append(toasts, t)
	}
	return toasts
}

// RecordingNavigator remembers the last requested route; the handler turns it
// into a redirect once the operation returns.
type RecordingNavigator struct {
	mu    sync.Mutex
	route string
}

func (n *RecordingNavigator) Navigate(route string) {
	n.mu.Lock()
	n.route = route
	n.mu.Unlock()
}

// Target returns the last route and whether one was requested.
func (n *RecordingNavigator) Target() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route, n.route != ""
}

// Reset forgets the recorded route.
func (n *RecordingNavigator) Reset() {
	n.mu.Lock()
	n.route = ""
	n.mu.Unlock()
}

// SendRedirect answers htmx requests with HX-Redirect and everything else with
// a 303, so a POSTed form is followed by a GET.
func SendRedirect(c *gin.Context, route string) {
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Redirect", route)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, route)
}
