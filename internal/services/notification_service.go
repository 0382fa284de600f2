package services

import (
	"context"
	"fmt"

	"mealhub/internal/utils"
	"mealhub/pkg/logger"
	"mealhub/pkg/sms"
)

// NotificationService sends account notices over SMS. Sending never fails
// the operation that triggered it.
type NotificationService interface {
	SendOTP(ctx context.Context, phone, code string)
	DriverApprovalChanged(ctx context.Context, phone string, approved bool, note string)
	AccountBlocked(ctx context.Context, phone string, blocked bool)
}

type notificationService struct {
	provider sms.SMSProvider
	from     string
	logger   *logger.Logger
}

func NewNotificationService(provider sms.SMSProvider, from string, log *logger.Logger) NotificationService {
	return &notificationService{
		provider: provider,
		from:     from,
		logger:   log.WithField("component", "notifications"),
	}
}

func (s *notificationService) SendOTP(ctx context.Context, phone, code string) {
	s.send(ctx, phone, "otp", fmt.Sprintf("Your %s verification code is %s. It expires in 10 minutes.", utils.AppName, code))
}

func (s *notificationService) DriverApprovalChanged(ctx context.Context, phone string, approved bool, note string) {
	message := fmt.Sprintf("Your %s delivery partner account has been approved. You can now go online.", utils.AppName)
	if !approved {
		message = fmt.Sprintf("Your %s delivery partner application was not approved.", utils.AppName)
		if note != "" {
			message += " Note: " + note
		}
	}
	s.send(ctx, phone, "transactional", message)
}

func (s *notificationService) AccountBlocked(ctx context.Context, phone string, blocked bool) {
	message := fmt.Sprintf("Your %s account has been blocked. Contact support for help.", utils.AppName)
	if !blocked {
		message = fmt.Sprintf("Your %s account has been unblocked.", utils.AppName)
	}
	s.send(ctx, phone, "transactional", message)
}

func (s *notificationService) send(ctx context.Context, phone, messageType, message string) {
	if s.provider == nil || phone == "" {
		return
	}

	resp, err := s.provider.SendSMS(ctx, &sms.SMSRequest{
		To:      sms.E164(phone),
		From:    s.from,
		Message: message,
		Type:    messageType,
	})
	log := s.logger.WithFields(map[string]interface{}{
		"provider": s.provider.Name(),
		"phone":    utils.MaskPhone(phone),
		"type":     messageType,
	})
	if err != nil {
		log.WithError(err).Warn("Failed to send SMS")
		return
	}
	log.WithField("message_id", resp.MessageID).Debug("SMS sent")
}
