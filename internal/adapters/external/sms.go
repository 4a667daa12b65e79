package external

import (
	"context"
	"fmt"
	"log"
)

// SMS delivery is an external collaborator: fire-and-forget, failure never
// rolls back the OTP row that is the actual audit trail. These are the two
// sinks a deployment might choose between.

// ConsoleSMSService logs the OTP instead of sending it. Use for development.
type ConsoleSMSService struct{}

// NewConsoleSMSService creates a new console SMS sink.
func NewConsoleSMSService() *ConsoleSMSService { return &ConsoleSMSService{} }

// SendOTP logs the OTP to console instead of sending SMS.
func (s *ConsoleSMSService) SendOTP(ctx context.Context, phone, code string) error {
	log.Printf("[SMS] Sending OTP %s to %s", code, phone)
	return nil
}

// TwilioSMSService integrates with Twilio for SMS delivery.
//
// SETUP:
// 1. Create a Twilio account.
// 2. Get Account SID, Auth Token, and phone number.
// 3. Install: go get github.com/twilio/twilio-go
type TwilioSMSService struct {
	accountSID string
	authToken  string
	fromPhone  string
}

// NewTwilioSMSService creates a new Twilio SMS sink.
func NewTwilioSMSService(accountSID, authToken, fromPhone string) *TwilioSMSService {
	return &TwilioSMSService{accountSID: accountSID, authToken: authToken, fromPhone: fromPhone}
}

// SendOTP sends an OTP via Twilio.
func (s *TwilioSMSService) SendOTP(ctx context.Context, phone, code string) error {
	message := fmt.Sprintf("Your verification code is: %s.", code)
	// TODO: wire the actual twilio-go client once an account is provisioned.
	log.Printf("[TWILIO] Would send to %s: %s", phone, message)
	return nil
}
