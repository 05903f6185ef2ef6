// Package broadcast sends one personalised email per recipient through a transactional provider.
package broadcast

import (
	"bytes"
	"html/template"
	"strings"
)

// Email is one provider request. It is never persisted.
type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

const fallbackName = "User"

var bodyTemplate = template.Must(template.New("broadcast").Parse(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <p>Hello {{.Name}},</p>
  <div style="margin: 20px 0;">{{.Body}}</div>
  <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;" />
  <p style="color: #666; font-size: 12px;">{{.Footer}}</p>
</div>
`))

type bodyData struct {
	Name   string
	Body   template.HTML
	Footer string
}

func greetingName(name string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return fallbackName
}

// messageHTML escapes message and turns line breaks into <br>.
func messageHTML(message string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(message, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// RenderHTML builds the HTML body for one recipient.
func RenderHTML(name, message, footer string) (string, error) {
	var buf bytes.Buffer
	err := bodyTemplate.Execute(&buf, bodyData{
		Name:   greetingName(name),
		Body:   messageHTML(message),
		Footer: footer,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderText is the plain-text alternative part.
func RenderText(name, message, footer string) string {
	return "Hello " + greetingName(name) + ",\n\n" + message + "\n\n--\n" + footer + "\n"
}
