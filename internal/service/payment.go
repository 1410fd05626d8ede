package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"equiprent-backend/internal/logger"

	"github.com/google/uuid"
)

// httpPaymentRequester posts payment requests to the configured payment
// endpoint. A declined payment comes back as Success=false, not as an error;
// the workflow keeps the booking and offers a retry either way.
type httpPaymentRequester struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewPaymentRequester(endpoint, apiKey string) PaymentRequester {
	return &httpPaymentRequester{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type paymentRequestBody struct {
	BookingID     string `json:"booking_id"`
	Amount        int64  `json:"amount"`
	DepositAmount int64  `json:"deposit_amount"`
	Description   string `json:"description"`
	Reference     string `json:"reference"`
}

func (r *httpPaymentRequester) RequestPayment(ctx context.Context, bookingID string, amount, depositAmount int64, description string) (*PaymentResult, error) {
	body := paymentRequestBody{
		BookingID:     bookingID,
		Amount:        amount,
		DepositAmount: depositAmount,
		Description:   description,
		Reference:     uuid.NewString(),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	logger.ExternalServiceCall("payment", "RequestPayment", "booking_id", bookingID, "amount", amount)
	resp, err := r.client.Do(req)
	if err != nil {
		logger.ExternalServiceResult("payment", "RequestPayment", err)
		return nil, fmt.Errorf("payment request failed: %w", err)
	}
	defer resp.Body.Close()

	var result PaymentResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("payment provider error: status %d", resp.StatusCode)
	}
	logger.ExternalServiceResult("payment", "RequestPayment", nil, "success", result.Success)
	return &result, nil
}
