package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/doisellos/storefront/internal/storefront"
	"github.com/doisellos/storefront/pkg/logging"
)

// contactSentMessage is shown before the WhatsApp redirect.
const contactSentMessage = "Mensagem enviada! Você será redirecionado para o WhatsApp."

// StorefrontHandler serves the product page widgets.
type StorefrontHandler struct {
	catalog        *storefront.Catalog
	whatsAppNumber string
	logger         *logging.Logger
}

func NewStorefrontHandler(catalog *storefront.Catalog, whatsAppNumber string, logger *logging.Logger) *StorefrontHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if catalog == nil {
		catalog = storefront.NewCatalog(nil, whatsAppNumber)
	}
	return &StorefrontHandler{catalog: catalog, whatsAppNumber: whatsAppNumber, logger: logger}
}

// Buy resolves a buy button. Browsers are redirected; JSON callers get the
// action so they can open WhatsApp links in a new tab.
func (h *StorefrontHandler) Buy(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		jsonError(w, "name is required", http.StatusBadRequest)
		return
	}
	action := h.catalog.Buy(name, r.URL.Query().Get("price"))
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, action)
		return
	}
	http.Redirect(w, r, action.URL, http.StatusSeeOther)
}

type contactResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Contact turns the contact form into a WhatsApp message.
func (h *StorefrontHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var form storefront.ContactForm
	asJSON := strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
	if asJSON {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			jsonError(w, "invalid form", http.StatusBadRequest)
			return
		}
		form = storefront.ContactForm{
			Name:    r.FormValue("name"),
			Email:   r.FormValue("email"),
			Message: r.FormValue("message"),
		}
	}
	link := form.Link(h.whatsAppNumber)
	h.logger.Debug("contact form submitted")
	if asJSON || wantsJSON(r) {
		writeJSON(w, http.StatusOK, contactResponse{Message: contactSentMessage, URL: link})
		return
	}
	http.Redirect(w, r, link, http.StatusSeeOther)
}

type galleryResponse struct {
	storefront.Gallery
	Handled bool `json:"handled"`
	// Offset is the scroll position showing Current; set when width is given.
	Offset float64 `json:"offset,omitempty"`
}

// Gallery applies a navigation action to a carousel position. Besides the
// named actions, "key" reads ?key=, "swipe" reads ?delta= and "scroll" reads
// ?left= with ?width=.
func (h *StorefrontHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	total, err := strconv.Atoi(chi.URLParam(r, "count"))
	if err != nil {
		jsonError(w, "count must be a number", http.StatusBadRequest)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		jsonError(w, "index must be a number", http.StatusBadRequest)
		return
	}
	g, err := storefront.NewGallery(total)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	g.GoTo(index)

	q := r.URL.Query()
	width, err := optionalFloat(q.Get("width"))
	if err != nil {
		jsonError(w, "width must be a number", http.StatusBadRequest)
		return
	}

	handled := true
	switch action := chi.URLParam(r, "action"); action {
	case "key":
		_, handled = g.Key(q.Get("key"))
	case "swipe":
		delta, err := strconv.ParseFloat(q.Get("delta"), 64)
		if err != nil {
			jsonError(w, "delta must be a number", http.StatusBadRequest)
			return
		}
		g.Swipe(delta)
	case "scroll":
		left, err := strconv.ParseFloat(q.Get("left"), 64)
		if err != nil {
			jsonError(w, "left must be a number", http.StatusBadRequest)
			return
		}
		g.SyncScroll(left, width)
	default:
		_, handled = g.Apply(action)
	}

	resp := galleryResponse{Gallery: *g, Handled: handled}
	if width > 0 {
		resp.Offset = g.ScrollOffset(width)
	}
	writeJSON(w, http.StatusOK, resp)
}

func optionalFloat(raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}
