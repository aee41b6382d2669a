package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// SMSService delivers OTP codes through an HTTP SMS gateway. When no
// gateway is configured it logs the code and reports success so local
// development works without a provider.
type SMSService struct {
	gatewayURL string
	apiKey     string
}

// NewSMSService creates a new SMSService.
func NewSMSService(gatewayURL, apiKey string) *SMSService {
	return &SMSService{gatewayURL: gatewayURL, apiKey: apiKey}
}

type smsRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// SendOTP dispatches a verification code to the given canonical phone
// number.
func (s *SMSService) SendOTP(phone, code string) error {
	message := fmt.Sprintf("Your Bazario verification code is %s. Valid for 10 minutes.", code)

	if s.gatewayURL == "" {
		log.Printf("[SMS] Gateway not configured, OTP for %s: %s", phone, code)
		return nil
	}

	body, err := json.Marshal(smsRequest{To: phone, Message: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("[SMS] Failed to send OTP: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("[SMS] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	return nil
}
