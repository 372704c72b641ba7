// Package mail delivers the transactional emails of the platform over SMTP.
package mail

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// ErrUnavailable is returned while the circuit breaker is open
var ErrUnavailable = errors.New("mail delivery temporarily unavailable")

// Config holds the SMTP settings
type Config struct {
	Host       string
	Username   string
	Password   string
	From       string
	SenderName string
	Port       int
	Timeout    time.Duration

	// FailureThreshold consecutive failures open the breaker for OpenTimeout
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

func (c Config) sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

// Transport hands a finished message to a mail server
type Transport interface {
	Send(ctx context.Context, from, to string, msg []byte) error
}

// Mailer renders emails and sends them through a circuit breaker
type Mailer struct {
	transport Transport
	breaker   *gobreaker.CircuitBreaker[struct{}]
	logger    *slog.Logger
	now       func() time.Time
	cfg       Config
}

// New creates a Mailer that sends over SMTP
func New(cfg Config, logger *slog.Logger) *Mailer {
	return NewWithTransport(cfg, NewSMTPTransport(cfg), logger)
}

// NewWithTransport creates a Mailer on top of an arbitrary transport
func NewWithTransport(cfg Config, transport Transport, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("mail circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &Mailer{
		transport: transport,
		breaker:   gobreaker.NewCircuitBreaker[struct{}](settings),
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
	}
}

// SendOTP emails a password reset code
func (m *Mailer) SendOTP(ctx context.Context, to, code string) error {
	body := fmt.Sprintf("Your password reset code is %s.\r\n\r\n"+
		"It expires in 10 minutes. If you did not ask to reset your password, ignore this email.\r\n", code)
	return m.send(ctx, to, "Password reset code", body)
}

// SendWelcome greets a newly registered user
func (m *Mailer) SendWelcome(ctx context.Context, to, fullname string) error {
	body := fmt.Sprintf("Hi %s,\r\n\r\nWelcome aboard! Your account is ready, start writing your first blog.\r\n", fullname)
	return m.send(ctx, to, "Welcome to the blog", body)
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	msg := m.buildMessage(to, subject, body)

	_, err := m.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, m.transport.Send(ctx, m.cfg.sender(), to, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrUnavailable
	}
	if err != nil {
		m.logger.Error("failed to send email", "error", err, "subject", subject)
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func messageID(host string) string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("<%s@%s>", hex.EncodeToString(b[:]), host)
}

func (m *Mailer) buildMessage(to, subject, body string) []byte {
	from := m.cfg.sender()
	if m.cfg.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", m.cfg.SenderName), from)
	}

	return fmt.Appendf(nil,
		"Message-ID: %s\r\n"+
			"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s",
		messageID(m.cfg.Host), m.now().Format(time.RFC1123Z), to, from,
		mime.QEncoding.Encode("utf-8", subject), body,
	)
}

// SMTPTransport delivers over SMTP with implicit TLS on port 465 and STARTTLS otherwise
type SMTPTransport struct {
	auth smtp.Auth
	cfg  Config
}

// NewSMTPTransport creates an SMTPTransport
func NewSMTPTransport(cfg Config) *SMTPTransport {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPTransport{auth: auth, cfg: cfg}
}

func (t *SMTPTransport) timeout() time.Duration {
	if t.cfg.Timeout > 0 {
		return t.cfg.Timeout
	}
	return 10 * time.Second
}

// Send implements Transport
func (t *SMTPTransport) Send(ctx context.Context, from, to string, msg []byte) error {
	address := net.JoinHostPort(t.cfg.Host, fmt.Sprint(t.cfg.Port))
	dialer := &net.Dialer{Timeout: t.timeout()}

	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("dial %s: %w", address, err)
	}
	defer func() { _ = conn.Close() }()

	deadline := time.Now().Add(t.timeout())
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return err
	}

	tlsConfig := &tls.Config{ServerName: t.cfg.Host, MinVersion: tls.VersionTLS12}
	if t.cfg.Port == 465 {
		conn = tls.Client(conn, tlsConfig)
	}

	client, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer func() { _ = client.Close() }()

	if t.cfg.Port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if t.auth != nil {
		if err := client.Auth(t.auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// LogMailer stands in for SMTP when no mail server is configured.
// It only logs that an email would have been sent.
type LogMailer struct {
	Logger *slog.Logger
}

func (l LogMailer) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// SendOTP implements users.Mailer
func (l LogMailer) SendOTP(ctx context.Context, to, code string) error {
	l.logger().Warn("mail disabled, password reset code not delivered", "to", maskAddress(to))
	return nil
}

// SendWelcome implements users.Mailer
func (l LogMailer) SendWelcome(ctx context.Context, to, fullname string) error {
	l.logger().Info("mail disabled, welcome email skipped", "to", maskAddress(to))
	return nil
}

// maskAddress keeps the first letter of the local part and the domain
func maskAddress(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at <= 0 {
		return "***"
	}
	return addr[:1] + "***" + addr[at:]
}
