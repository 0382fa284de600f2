package sms

import "context"

type SMSProvider interface {
	SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error)
	Name() string
}

type SMSRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
	Type    string `json:"type"` // transactional, promotional, otp
}

type SMSResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// E164 turns a ten digit national number into +91 form. Numbers that
// already carry a plus sign are returned unchanged.
func E164(phone string) string {
	if len(phone) > 0 && phone[0] == '+' {
		return phone
	}
	return "+91" + phone
}
