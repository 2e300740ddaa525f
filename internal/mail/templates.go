package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

// Rendered is the output of a template family: one subject and two bodies
// with identical content. Rendering is pure; given the same input the output
// is byte-identical (the footer year is the only value not derived from input).
type Rendered struct {
	Subject string
	HTML    string
	Text    string
}

type baseEmailData struct {
	Title   string
	Heading string
	Year    int
}

// QuoteResponseEmailData feeds the customer-facing quote response email.
type QuoteResponseEmailData struct {
	baseEmailData
	RecipientName   string
	ServiceName     string
	Status          string
	AdminResponse   string
	AmountFormatted string // empty when no amount was quoted
	DashboardURL    string
}

// QuoteIntakeEmailData feeds the internal new-quote-request email.
type QuoteIntakeEmailData struct {
	baseEmailData
	Name        string
	Email       string
	Phone       string
	ServiceName string
	Origin      string
	Destination string
	Description string
	AdminURL    string
}

// ContactIntakeEmailData feeds the internal new-contact-message email.
type ContactIntakeEmailData struct {
	baseEmailData
	Name     string
	Email    string
	Topic    string
	Body     string
	AdminURL string
}

// RenderQuoteResponse renders the quote response email for a customer.
func RenderQuoteResponse(d QuoteResponseEmailData) (Rendered, error) {
	d.baseEmailData = baseEmailData{
		Title:   "Your quote is ready",
		Heading: "Your quote is ready",
		Year:    time.Now().Year(),
	}
	return render("quote_response", fmt.Sprintf(subjectQuoteResponseFmt, d.ServiceName), d)
}

// RenderQuoteIntake renders the internal notification for a new quote request.
func RenderQuoteIntake(d QuoteIntakeEmailData) (Rendered, error) {
	d.baseEmailData = baseEmailData{
		Title:   "New quote request",
		Heading: "New quote request",
		Year:    time.Now().Year(),
	}
	return render("quote_intake", fmt.Sprintf(subjectQuoteIntakeFmt, d.ServiceName), d)
}

// RenderContactIntake renders the internal notification for a contact message.
func RenderContactIntake(d ContactIntakeEmailData) (Rendered, error) {
	d.baseEmailData = baseEmailData{
		Title:   "New contact message",
		Heading: "New contact message",
		Year:    time.Now().Year(),
	}
	return render("contact_intake", fmt.Sprintf(subjectContactIntakeFmt, d.Name), d)
}

// FormatAmount renders a money amount in cents for display in emails,
// e.g. "USD 1250.00".
func FormatAmount(cents int64, currency string) string {
	return fmt.Sprintf("%s %.2f", currency, float64(cents)/100)
}

func render(name, subject string, data any) (Rendered, error) {
	html, err := renderHTML(name, data)
	if err != nil {
		return Rendered{}, err
	}
	text, err := renderText(name, data)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Subject: subject, HTML: html, Text: text}, nil
}

func renderHTML(name string, data any) (string, error) {
	files := []string{"templates/base.html", "templates/" + name + ".html"}
	tmpl, err := htmltemplate.New("base.html").ParseFS(templateFS, files...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderText(name string, data any) (string, error) {
	files := []string{"templates/base.txt", "templates/" + name + ".txt"}
	tmpl, err := texttemplate.New("base.txt").ParseFS(templateFS, files...)
	if err != nil {
		return "", fmt.Errorf("parse email text template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email text template %s: %w", name, err)
	}
	return buf.String(), nil
}
