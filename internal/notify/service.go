// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pollenlabs/pollen/internal/platform/ctxutil"
	"github.com/pollenlabs/pollen/internal/settings"
)

// Service composes domain messages and hands them to the transport.
type Service struct {
	dispatcher Dispatcher
	resolver   *settings.Resolver
}

func NewService(dispatcher Dispatcher, resolver *settings.Resolver) *Service {
	return &Service{dispatcher: dispatcher, resolver: resolver}
}

// SendVerificationCode mails a signup confirmation code.
func (service *Service) SendVerificationCode(ctx context.Context, recipient, code string) error {
	subject := "Your Pollen verification code"
	body := fmt.Sprintf(
		"Your verification code is: %s\n\nIt expires in 10 minutes. If you did not request this, ignore this email.\n",
		code,
	)
	return service.dispatcher.Send(ctx, []string{recipient}, subject, body)
}

// SendPasswordResetCode mails a password reset code.
func (service *Service) SendPasswordResetCode(ctx context.Context, recipient, code string) error {
	subject := "Reset your Pollen password"
	body := fmt.Sprintf(
		"Your password reset code is: %s\n\nIt expires in 10 minutes. If you did not request a reset, your account is still safe.\n",
		code,
	)
	return service.dispatcher.Send(ctx, []string{recipient}, subject, body)
}

// NotifyAdminsOfSignup tells the operator list that a new account registered.
//
// Recipients are the bootstrap operator list; when that resolves empty, the
// ADMIN_NOTIFICATION_EMAILS setting is a fallback. No recipients means the
// notification is skipped, not failed.
func (service *Service) NotifyAdminsOfSignup(ctx context.Context, newUserEmail string) error {
	recipients, err := service.resolver.ListOr(ctx, settings.KeySuperAdminEmails, nil)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		recipients, err = service.resolver.ListOr(ctx, settings.KeyAdminNotificationEmails, nil)
		if err != nil {
			return err
		}
	}
	if len(recipients) == 0 {
		ctxutil.GetLogger(ctx).Debug("no admin notification recipients configured, skipping")
		return nil
	}

	subject := "New Pollen account"
	body := fmt.Sprintf("A new account just registered: %s\n", newUserEmail)
	return service.dispatcher.Send(ctx, recipients, subject, body)
}

// SendTestEmail verifies the configured transport end to end. Unlike the
// domain messages, delivery failures here always propagate to the caller.
func (service *Service) SendTestEmail(ctx context.Context, recipient string) error {
	subject := "Pollen test email"
	body := "The mail transport is configured correctly.\n"
	return service.dispatcher.Send(ctx, []string{recipient}, subject, body)
}

// # Development Transport

// LogDispatcher writes messages to the structured log instead of the network.
// Used in development and in tests.
type LogDispatcher struct{}

func (LogDispatcher) Send(ctx context.Context, recipients []string, subject, body string) error {
	ctxutil.GetLogger(ctx).Info("outbound email (log transport)",
		slog.Any("recipients", recipients),
		slog.String("subject", subject),
		slog.String("body", body))
	return nil
}
