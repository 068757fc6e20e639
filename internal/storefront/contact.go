package storefront

import (
	"fmt"
	"strings"
)

// ContactForm is the storefront contact form submission.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Text is the WhatsApp message for the submission.
func (f ContactForm) Text() string {
	return fmt.Sprintf("Olá! Meu nome é %s (%s). %s",
		strings.TrimSpace(f.Name), strings.TrimSpace(f.Email), strings.TrimSpace(f.Message))
}

// Link returns the WhatsApp URL the form redirects to.
func (f ContactForm) Link(number string) string {
	return WhatsAppLink(number, f.Text())
}
