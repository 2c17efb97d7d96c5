package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/priya/course-platform/internal/config"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Mailer renders an embedded template and sends it over SMTP. Sending is
// best-effort from the caller's point of view: every caller decides whether
// a mail failure fails the request.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
	tmpl     *template.Template
}

func NewMailer(cfg *config.Config) (*Mailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPMail,
		password: cfg.SMTPPassword,
		tmpl:     tmpl,
	}, nil
}

// Send renders the named template with data and delivers it to the address.
func (m *Mailer) Send(to, subject, templateName string, data any) error {
	var body bytes.Buffer
	if err := m.tmpl.ExecuteTemplate(&body, templateName, data); err != nil {
		return err
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{to}, msg.Bytes())
}

// ActivationData fills the activation-mail template.
type ActivationData struct {
	Name           string
	ActivationCode string
}

// OrderData fills the order-confirmation template.
type OrderData struct {
	Name        string
	OrderID     string
	CourseName  string
	Price       float64
	OrderedDate string
}

// QuestionReplyData fills the question-reply template.
type QuestionReplyData struct {
	Name         string
	CourseName   string
	SectionTitle string
}
