package service

import (
	"context"
	"fmt"

	"equiprent-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(ctx context.Context, to, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.Debug("Email sent", "to", to, "subject", subject)
	return nil
}

func (s *emailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, renterName, equipmentTitle string) error {
	body := fmt.Sprintf("Hello,\n\n%s requested to rent your equipment: %s.\n\nLog in to approve or reject the request.\n\nThe EquipRent Team", renterName, equipmentTitle)
	return s.send(ctx, ownerEmail, fmt.Sprintf("New booking request for %s", equipmentTitle), body)
}

func (s *emailService) SendBookingApprovalNotification(ctx context.Context, renterEmail, equipmentTitle string) error {
	body := fmt.Sprintf("Hello,\n\nYour booking request for %s was approved.\n\nYou can now review and sign the rental contract.\n\nThe EquipRent Team", equipmentTitle)
	return s.send(ctx, renterEmail, "Booking approved", body)
}

func (s *emailService) SendBookingRejectionNotification(ctx context.Context, renterEmail, equipmentTitle string) error {
	body := fmt.Sprintf("Hello,\n\nYour booking request for %s was rejected by the owner.\n\nThe EquipRent Team", equipmentTitle)
	return s.send(ctx, renterEmail, "Booking rejected", body)
}

func (s *emailService) SendBookingCancellationNotification(ctx context.Context, ownerEmail, renterName, equipmentTitle string) error {
	body := fmt.Sprintf("Hello,\n\n%s cancelled the booking for %s.\n\nThe equipment is available for new bookings again.\n\nThe EquipRent Team", renterName, equipmentTitle)
	return s.send(ctx, ownerEmail, "Booking cancelled", body)
}

func (s *emailService) SendContractReadyNotification(ctx context.Context, email, equipmentTitle, documentURL string) error {
	body := fmt.Sprintf("Hello,\n\nThe rental contract for %s is ready for signature:\n\n%s\n\nThe EquipRent Team", equipmentTitle, documentURL)
	return s.send(ctx, email, "Rental contract ready", body)
}
