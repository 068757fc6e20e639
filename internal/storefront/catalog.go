package storefront

import (
	"strings"
)

const (
	pageTernoExecutivo = "produto-terno-executivo.html"
	pageCamisetaSocial = "produto-camiseta-social.html"
	pageCalcasSocial   = "produto-calcas-social.html"
)

// DefaultProductPages maps product card titles to their detail pages.
var DefaultProductPages = map[string]string{
	"Terno Executivo":            pageTernoExecutivo,
	"Terno Clássico":             "produto-terno-classico.html",
	"Terno Slim Fit Preto":       "produto-terno-slim-fit.html",
	"Terno black Elegance":       "produto-terno-black-elegance.html",
	"Camisetas Sociais":          pageCamisetaSocial,
	"Camiseta social Premiun":    "produto-camiseta-premium.html",
	"Camiseta Social Azul":       pageCamisetaSocial,
	"Camiseta Social Branca":     pageCamisetaSocial,
	"Camiseta Social Listrada":   pageCamisetaSocial,
	"Calça Social Preta Premium": pageCalcasSocial,
	"Calça Social Cinza":         pageCalcasSocial,
	"Calça Social Sarja":         pageCalcasSocial,
}

// sitePath roots a page name at the storefront so redirects do not resolve
// against the request path. Absolute paths and URLs pass through.
func sitePath(page string) string {
	if strings.HasPrefix(page, "/") || strings.Contains(page, "://") {
		return page
	}
	return "/" + page
}

// BuyAction is where a buy button sends the shopper.
type BuyAction struct {
	// URL is either a site-rooted product page or a WhatsApp link.
	URL string `json:"url"`
	// External is true for WhatsApp links, which open in a new tab.
	External bool `json:"external"`
}

// Catalog resolves buy buttons to product pages.
type Catalog struct {
	pages          map[string]string
	whatsAppNumber string
}

// NewCatalog creates a catalog. A nil pages map uses DefaultProductPages.
func NewCatalog(pages map[string]string, whatsAppNumber string) *Catalog {
	if pages == nil {
		pages = DefaultProductPages
	}
	return &Catalog{pages: pages, whatsAppNumber: whatsAppNumber}
}

// Buy resolves the exact page, then a category page, then falls back to a
// WhatsApp inquiry naming the product and price.
func (c *Catalog) Buy(name, price string) BuyAction {
	name = strings.TrimSpace(name)
	if page, ok := c.pages[name]; ok {
		return BuyAction{URL: sitePath(page)}
	}
	if page := FallbackPage(name); page != "" {
		return BuyAction{URL: sitePath(page)}
	}
	return BuyAction{
		URL:      WhatsAppLink(c.whatsAppNumber, ProductInquiry(name, price)),
		External: true,
	}
}

// FallbackPage matches a product name to its category page by keyword.
func FallbackPage(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "terno"):
		return pageTernoExecutivo
	case strings.Contains(n, "camiseta"), strings.Contains(n, "camisa"):
		return pageCamisetaSocial
	case strings.Contains(n, "calça"), strings.Contains(n, "calca"):
		return pageCalcasSocial
	}
	return ""
}
