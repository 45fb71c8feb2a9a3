// Package mailer notifies each giver of their drawn receiver over SMTP.
// It consumes a persisted draw plus the freshly loaded roster, and refuses
// to send anything when the two have drifted apart.
package mailer

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"os"
	"sort"
	"strconv"
	"text/template"

	"github.com/jkowalik/giftdraw/internal/models"
	"github.com/jkowalik/giftdraw/internal/roster"
)

// ConsistencyError reports a persisted assignment naming someone missing
// from the current roster. The roster file may have changed since the draw
// ran; sending against a drifted roster would notify the wrong people.
type ConsistencyError struct {
	Role string // "giver" or "receiver"
	Name string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("mailer: %s %q from the stored draw is missing in the current roster", e.Role, e.Name)
}

// Options controls a single Send run.
type Options struct {
	// DryRun previews every message instead of dialing the server.
	DryRun bool

	// Only restricts sending to a single giver, selected by full name or
	// email address. Empty means everyone.
	Only string
}

// templateData is the field set available to the body template.
type templateData struct {
	GiverFirst  string
	GiverLast   string
	GiverFull   string
	TargetFirst string
	TargetLast  string
	TargetFull  string
	TargetEmail string
}

// Mailer renders and sends assignment notifications.
type Mailer struct {
	cfg  *Config
	body *template.Template
	out  io.Writer // dry-run preview destination
}

// New builds a Mailer from cfg, parsing the body template once. preview is
// where dry-run output goes; nil means os.Stdout.
func New(cfg *Config, preview io.Writer) (*Mailer, error) {
	body, err := template.New("body").Parse(cfg.Email.Body)
	if err != nil {
		return nil, fmt.Errorf("mailer: invalid body template: %w", err)
	}
	if preview == nil {
		preview = os.Stdout
	}
	return &Mailer{cfg: cfg, body: body, out: preview}, nil
}

// VerifyAssignments checks that every giver and receiver in the stored
// draw still exists in the current roster. This runs before any message is
// dispatched.
func VerifyAssignments(assignments map[string]string, ros *roster.Roster) error {
	for giver, receiver := range assignments {
		if _, ok := ros.ByName(giver); !ok {
			return &ConsistencyError{Role: "giver", Name: giver}
		}
		if _, ok := ros.ByName(receiver); !ok {
			return &ConsistencyError{Role: "receiver", Name: receiver}
		}
	}
	return nil
}

// Send notifies givers of their assignments. The whole draw is verified
// against the roster first, then messages go out one SMTP session for all
// recipients, in giver-name order.
func (m *Mailer) Send(assignments map[string]string, ros *roster.Roster, opts Options) error {
	if err := VerifyAssignments(assignments, ros); err != nil {
		return err
	}

	selected, err := filterOnly(assignments, ros, opts.Only)
	if err != nil {
		return err
	}

	password := m.cfg.ResolvePassword()
	if !opts.DryRun && m.cfg.SMTP.Username != "" && password == "" {
		return fmt.Errorf("mailer: missing SMTP password: set %s or the inline password field",
			m.cfg.SMTP.PasswordEnvVar)
	}

	var client *smtp.Client
	if !opts.DryRun {
		client, err = m.dial(password)
		if err != nil {
			return err
		}
		defer client.Quit()
	} else {
		fmt.Fprintln(m.out, "=== DRY RUN - nothing will be sent, preview only ===")
	}

	givers := make([]string, 0, len(selected))
	for giver := range selected {
		givers = append(givers, giver)
	}
	sort.Strings(givers)

	for _, giverName := range givers {
		giver, _ := ros.ByName(giverName)
		target, _ := ros.ByName(selected[giverName])

		body, err := m.render(giver, target)
		if err != nil {
			return err
		}

		if opts.DryRun {
			fmt.Fprintln(m.out, "\n-----------------------------")
			fmt.Fprintf(m.out, "TO: %s\n", giver.Email)
			fmt.Fprintf(m.out, "SUBJECT: %s\n", m.cfg.Email.Subject)
			fmt.Fprintln(m.out, "BODY:")
			fmt.Fprintln(m.out, body)
			continue
		}

		if err := m.transmit(client, giver.Email, body); err != nil {
			return fmt.Errorf("mailer: failed to send to %s: %w", giver.Email, err)
		}
	}
	return nil
}

// filterOnly narrows the assignments to a single giver identified by full
// name or email address; an empty identifier keeps everyone.
func filterOnly(assignments map[string]string, ros *roster.Roster, only string) (map[string]string, error) {
	if only == "" {
		return assignments, nil
	}

	giverName := ""
	if _, ok := assignments[only]; ok {
		giverName = only
	} else {
		for _, name := range ros.Names() {
			p, _ := ros.ByName(name)
			if p.Email == only {
				giverName = name
				break
			}
		}
	}
	if giverName == "" {
		return nil, fmt.Errorf("mailer: no participant found with full name or email %q", only)
	}
	receiver, ok := assignments[giverName]
	if !ok {
		return nil, fmt.Errorf("mailer: participant %q does not appear as a giver in the draw", giverName)
	}
	return map[string]string{giverName: receiver}, nil
}

// render executes the body template for one giver/target pair.
func (m *Mailer) render(giver, target models.Participant) (string, error) {
	var buf bytes.Buffer
	err := m.body.Execute(&buf, templateData{
		GiverFirst:  giver.FirstName,
		GiverLast:   giver.LastName,
		GiverFull:   giver.FullName(),
		TargetFirst: target.FirstName,
		TargetLast:  target.LastName,
		TargetFull:  target.FullName(),
		TargetEmail: target.Email,
	})
	if err != nil {
		return "", fmt.Errorf("mailer: failed to render body for %s: %w", giver.FullName(), err)
	}
	return buf.String(), nil
}

// dial opens the SMTP session, upgrading to STARTTLS and authenticating
// when configured.
func (m *Mailer) dial(password string) (*smtp.Client, error) {
	addr := net.JoinHostPort(m.cfg.SMTP.Host, strconv.Itoa(m.cfg.SMTP.Port))
	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("mailer: failed to connect to %s: %w", addr, err)
	}
	if m.cfg.useTLS() {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: m.cfg.SMTP.Host}); err != nil {
				client.Close()
				return nil, fmt.Errorf("mailer: STARTTLS failed: %w", err)
			}
		}
	}
	if m.cfg.SMTP.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.SMTP.Username, password, m.cfg.SMTP.Host)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, fmt.Errorf("mailer: SMTP auth failed: %w", err)
		}
	}
	return client, nil
}

// transmit sends one rendered message within the open session.
func (m *Mailer) transmit(client *smtp.Client, to, body string) error {
	if err := client.Mail(m.cfg.Email.FromEmail); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	msg := buildMessage(m.cfg.Email.FromEmail, to, m.cfg.Email.Subject, body)
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// buildMessage assembles a plain-text UTF-8 RFC 5322 message.
func buildMessage(from, to, subject, body string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.Bytes()
}
