package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"golang.org/x/time/rate"
)

// AccessCodeMessage описывает письмо судье с кодом доступа к порталу
type AccessCodeMessage struct {
	ToEmail    string
	JudgeName  string
	EventName  string
	NetID      string
	AccessCode string
}

// EmailService sends transactional emails.
type EmailService interface {
	SendAccessCode(ctx context.Context, msg AccessCodeMessage) error
}

// NoopEmailService is used when Resend is not configured.
type NoopEmailService struct{}

func (s *NoopEmailService) SendAccessCode(ctx context.Context, msg AccessCodeMessage) error {
	log.Printf("[EmailService] noop send access code to=%s event=%s", msg.ToEmail, msg.EventName)
	return nil
}

// ResendEmailService sends emails via Resend REST API.
// Отправка ограничена по частоте, чтобы загрузка большого списка судей не упиралась в лимиты Resend.
type ResendEmailService struct {
	from      string
	portalURL string
	client    *resend.Client
	limiter   *rate.Limiter
}

func NewResendEmailService(apiKey, from, portalURL string, ratePerSecond float64) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	if ratePerSecond <= 0 {
		ratePerSecond = 2
	}
	return &ResendEmailService{
		from:      from,
		portalURL: portalURL,
		client:    resend.NewClient(apiKey),
		limiter:   rate.NewLimiter(rate.Limit(ratePerSecond), 1),
	}, nil
}

func (s *ResendEmailService) SendAccessCode(ctx context.Context, msg AccessCodeMessage) error {
	if msg.ToEmail == "" || msg.AccessCode == "" {
		return fmt.Errorf("toEmail and access code are required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.ToEmail},
		Subject: fmt.Sprintf("Judging access for %s", msg.EventName),
		Text:    accessCodeText(msg, s.portalURL),
		Html:    accessCodeHTML(msg, s.portalURL),
	}

	// Одно письмо на пару (мероприятие, код): повторная загрузка не дублирует рассылку
	options := &resend.SendEmailOptions{
		IdempotencyKey: fmt.Sprintf("access-code-%s-%s", msg.NetID, msg.AccessCode),
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("email rate limiter: %w", err)
		}

		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func accessCodeText(msg AccessCodeMessage, portalURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", msg.JudgeName)
	fmt.Fprintf(&b, "You have been added as a judge for %s.\n", msg.EventName)
	fmt.Fprintf(&b, "NetID: %s\nAccess code: %s\n", msg.NetID, msg.AccessCode)
	if portalURL != "" {
		fmt.Fprintf(&b, "\nJudge portal: %s\n", portalURL)
	}
	return b.String()
}

func accessCodeHTML(msg AccessCodeMessage, portalURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hello %s,</p>", msg.JudgeName)
	fmt.Fprintf(&b, "<p>You have been added as a judge for <strong>%s</strong>.</p>", msg.EventName)
	fmt.Fprintf(&b, "<p>NetID: <strong>%s</strong><br>Access code: <strong>%s</strong></p>", msg.NetID, msg.AccessCode)
	if portalURL != "" {
		fmt.Fprintf(&b, "<p><a href=\"%s\">Open the judge portal</a></p>", portalURL)
	}
	return b.String()
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
