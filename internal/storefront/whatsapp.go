package storefront

import (
	"fmt"
	"net/url"
	"strings"
)

const whatsAppBase = "https://wa.me/"

// WhatsAppLink builds a click-to-chat URL with a prefilled message.
func WhatsAppLink(number, text string) string {
	number = digitsOnly(number)
	return whatsAppBase + number + "?text=" + encodeURIComponent(text)
}

// encodeURIComponent matches the browser function: spaces become %20 and
// only A-Z a-z 0-9 - _ . ! ~ * ' ( ) are left as is.
func encodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	for _, r := range []string{"!", "'", "(", ")", "*"} {
		escaped = strings.ReplaceAll(escaped, url.QueryEscape(r), r)
	}
	return escaped
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ProductInquiry is the message sent when a product has no page of its own.
func ProductInquiry(name, price string) string {
	return fmt.Sprintf("Olá! Tenho interesse no produto: %s - %s", strings.TrimSpace(name), strings.TrimSpace(price))
}
