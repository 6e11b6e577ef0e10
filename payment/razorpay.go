package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// orderCreator is the part of the Razorpay client used here
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayGateway creates Razorpay orders and verifies checkout signatures
type RazorpayGateway struct {
	orders orderCreator
	secret string
}

func NewRazorpayGateway(key, secret string) *RazorpayGateway {
	client := razorpay.NewClient(key, secret)
	return &RazorpayGateway{orders: client.Order, secret: secret}
}

// CreateOrder registers the amount with Razorpay. amount is already in the
// currency's smallest unit.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, receipt string, amount int64, currency string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	orderData := map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	rzOrder, err := g.orders.Create(orderData, nil)
	if err != nil {
		return "", fmt.Errorf("create razorpay order: %w", err)
	}
	id, ok := rzOrder["id"].(string)
	if !ok || id == "" {
		return "", errors.New("razorpay order response has no id")
	}
	return id, nil
}

// VerifySignature checks HMAC-SHA256(orderID|paymentID) against signature
func (g *RazorpayGateway) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	return hmac.Equal([]byte(Sign(g.secret, gatewayOrderID, paymentID)), []byte(signature))
}

// Sign computes the signature Razorpay sends back to the checkout page
func Sign(secret, gatewayOrderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}
