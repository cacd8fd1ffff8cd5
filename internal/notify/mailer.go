// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

/*
Package notify delivers outbound email for the auth flow.

Transport credentials are resolved through the settings layer at SEND time,
never cached: an operator can repoint SMTP via the settings API and the next
email uses the new transport without a restart.

Architecture:

  - Dispatcher: The transport boundary (SMTP in production, log-only in dev).
  - Service: Domain-level messages (verification codes, admin notifications).
*/
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/pollenlabs/pollen/internal/settings"
)

// Dispatcher sends a single plain-text message.
type Dispatcher interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// # SMTP Transport

// SMTPDispatcher delivers mail over SMTP using transport settings resolved
// per send.
type SMTPDispatcher struct {
	resolver *settings.Resolver
}

func NewSMTPDispatcher(resolver *settings.Resolver) *SMTPDispatcher {
	return &SMTPDispatcher{resolver: resolver}
}

// smtpConfig is the transport configuration snapshot for one send.
type smtpConfig struct {
	Host     string
	Port     int
	UseTLS   bool // STARTTLS after connect
	UseSSL   bool // implicit TLS on connect
	Username string
	Password string
	From     string
}

func (dispatcher *SMTPDispatcher) loadConfig(ctx context.Context) (*smtpConfig, error) {
	r := dispatcher.resolver

	host, err := r.StringOr(ctx, settings.KeyEmailHost, "")
	if err != nil {
		return nil, err
	}
	if host == "" {
		return nil, fmt.Errorf("notify: mail transport not configured (set %s)", settings.KeyEmailHost)
	}

	port, err := r.IntOr(ctx, settings.KeyEmailPort, 587)
	if err != nil {
		return nil, err
	}
	useTLS, err := r.BoolOr(ctx, settings.KeyEmailUseTLS, true)
	if err != nil {
		return nil, err
	}
	useSSL, err := r.BoolOr(ctx, settings.KeyEmailUseSSL, false)
	if err != nil {
		return nil, err
	}
	username, err := r.StringOr(ctx, settings.KeyEmailHostUser, "")
	if err != nil {
		return nil, err
	}
	password, err := r.StringOr(ctx, settings.KeyEmailHostPassword, "")
	if err != nil {
		return nil, err
	}
	from, err := r.StringOr(ctx, settings.KeyDefaultFromEmail, "no-reply@pollenlabs.io")
	if err != nil {
		return nil, err
	}

	return &smtpConfig{
		Host:     host,
		Port:     port,
		UseTLS:   useTLS,
		UseSSL:   useSSL,
		Username: username,
		Password: password,
		From:     from,
	}, nil
}

func (dispatcher *SMTPDispatcher) Send(ctx context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return nil
	}

	cfg, err := dispatcher.loadConfig(ctx)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	var client *smtp.Client
	if cfg.UseSSL {
		// Implicit TLS (typically port 465)
		conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: cfg.Host})
		if err != nil {
			return fmt.Errorf("notify: tls dial %s: %w", addr, err)
		}
		client, err = smtp.NewClient(conn, cfg.Host)
		if err != nil {
			conn.Close()
			return fmt.Errorf("notify: smtp handshake %s: %w", addr, err)
		}
	} else {
		client, err = smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("notify: dial %s: %w", addr, err)
		}
		if cfg.UseTLS {
			if err := client.StartTLS(&tls.Config{ServerName: cfg.Host}); err != nil {
				client.Close()
				return fmt.Errorf("notify: starttls %s: %w", addr, err)
			}
		}
	}
	defer client.Close()

	if cfg.Username != "" {
		auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("notify: smtp auth: %w", err)
		}
	}

	if err := client.Mail(cfg.From); err != nil {
		return fmt.Errorf("notify: mail from: %w", err)
	}
	for _, recipient := range recipients {
		if err := client.Rcpt(recipient); err != nil {
			return fmt.Errorf("notify: rcpt %s: %w", recipient, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("notify: data: %w", err)
	}
	if _, err := writer.Write(buildMessage(cfg.From, recipients, subject, body)); err != nil {
		writer.Close()
		return fmt.Errorf("notify: write body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("notify: close body: %w", err)
	}
	return client.Quit()
}

// buildMessage renders the RFC 5322 plain-text message.
func buildMessage(from string, recipients []string, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(recipients, ", ") + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
