package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names
const (
	Welcome        = "welcome"
	ForgotPassword = "forgot_password"
)

// EmailData carries the fields referenced by the email templates.
type EmailData struct {
	Name      string
	AppName   string
	Year      int
	ResetLink string
}

func NewEmailData(name, appName string) EmailData {
	return EmailData{Name: name, AppName: appName, Year: time.Now().Year()}
}

// ToMap converts EmailData into the generic map carried by EmailJob.Data.
func ToMap(d EmailData) map[string]any {
	return map[string]any{
		"Name":      d.Name,
		"AppName":   d.AppName,
		"Year":      d.Year,
		"ResetLink": d.ResetLink,
	}
}

// RenderHTML renders <name>.html.tmpl from the embedded FS.
func RenderHTML(name string, data any) (string, error) {
	filename := name + ".html.tmpl"
	tpl, err := htmpl.New(filename).ParseFS(FS, filename)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", filename, err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// SubjectFor returns the email subject for a template name.
func SubjectFor(name, appName string) string {
	switch name {
	case Welcome:
		return appName + ": Register Welcome Email"
	case ForgotPassword:
		return appName + ": Forgot Password Email"
	default:
		return appName + ": Notification"
	}
}
