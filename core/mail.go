package core

import (
	"bytes"
	htmltmpl "html/template"
	"io/fs"
	"net/mail"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

var (
	textTemplates *texttmpl.Template
	htmlTemplates *htmltmpl.Template
	tmplInit      sync.Once
	tmplFS        fs.FS
)

type (
	Attachment struct {
		Content     *bytes.Buffer
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// SetTemplatesFS installs the filesystem that holds the email templates
// ("*.txt" and "*.html" files in its "templates" directory).
func SetTemplatesFS(fsys fs.FS) { tmplFS = fsys }

func loadTemplates() {
	if tmplFS == nil {
		return
	}
	if t, err := texttmpl.ParseFS(tmplFS, "templates/*.txt"); err == nil {
		textTemplates = t
	}
	if t, err := htmltmpl.ParseFS(tmplFS, "templates/*.html"); err == nil {
		htmlTemplates = t
	}
}

func (m *EmailMessage) getContextData() ContextData {
	return ContextData{
		FrontendBaseURL: Conf.FrontendBaseURL,
		Data:            m.TemplateData,
	}
}

// Render resolves the message's text and HTML contents, executing the
// registered templates when TemplateName is set.
func (m *EmailMessage) Render() error {
	tmplInit.Do(loadTemplates)

	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}
	if m.TemplateName == "" {
		return nil
	}

	data := m.getContextData()
	if textTemplates != nil {
		var buf bytes.Buffer
		if err := textTemplates.ExecuteTemplate(&buf, m.TemplateName+".txt", data); err != nil {
			return errors.Wrap(err, "executing text template "+m.TemplateName)
		}
		m.TextContent = strings.TrimSpace(buf.String())
	}
	if htmlTemplates != nil {
		var buf bytes.Buffer
		if err := htmlTemplates.ExecuteTemplate(&buf, m.TemplateName+".html", data); err == nil {
			m.HTMLContent = buf.String()
		}
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To)+len(m.Cc)+len(m.Bcc) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.TextContent != "" || m.HTMLContent != ""
}

func (m *EmailMessage) HasAttachments() bool {
	return len(m.Attachments) > 0
}
