package payments

import (
	"fmt"

	"github.com/razorpay/razorpay-go"
)

// GatewayStatus is the coarse payment state the verification flow
// acts on. The gateway's own vocabulary is folded into these three.
type GatewayStatus string

const (
	StatusPaid    GatewayStatus = "paid"
	StatusFailed  GatewayStatus = "failed"
	StatusPending GatewayStatus = "pending"
)

// GatewayOrder is the authoritative view of a checkout session as the
// gateway reports it.
type GatewayOrder struct {
	ID        string
	Amount    int64 // smallest currency unit (paise)
	Status    GatewayStatus
	PaymentID string
	Notes     map[string]string
}

// Gateway is the hosted-checkout boundary. CreateOrder opens a session
// and FetchOrder polls its status; everything hard (tokenization,
// fraud, settlement) stays on the provider's side.
type Gateway interface {
	CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (string, error)
	FetchOrder(id string) (*GatewayOrder, error)
}

// RazorpayGateway implements Gateway against the Razorpay Orders API.
type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *RazorpayGateway) CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (string, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}
	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", err
	}
	id, ok := order["id"].(string)
	if !ok {
		return "", fmt.Errorf("gateway order response missing id")
	}
	return id, nil
}

func (g *RazorpayGateway) FetchOrder(id string) (*GatewayOrder, error) {
	order, err := g.client.Order.Fetch(id, nil, nil)
	if err != nil {
		return nil, err
	}

	gw := &GatewayOrder{ID: id, Status: StatusPending, Notes: map[string]string{}}
	if amount, ok := order["amount"].(float64); ok {
		gw.Amount = int64(amount)
	}
	if notes, ok := order["notes"].(map[string]interface{}); ok {
		for k, v := range notes {
			if s, ok := v.(string); ok {
				gw.Notes[k] = s
			}
		}
	}

	status, _ := order["status"].(string)
	if status == "paid" {
		gw.Status = StatusPaid
	}

	// The order status alone never reports failure; a failed attempt
	// leaves the order in "attempted". Inspect the payments made
	// against it to tell a dead checkout from one still in flight.
	payments, err := g.client.Order.Payments(id, nil, nil)
	if err != nil {
		return gw, nil
	}
	items, _ := payments["items"].([]interface{})
	anyFailed := false
	for _, item := range items {
		payment, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		pStatus, _ := payment["status"].(string)
		switch pStatus {
		case "captured", "authorized":
			if pid, ok := payment["id"].(string); ok {
				gw.PaymentID = pid
			}
		case "failed":
			anyFailed = true
		}
	}
	if gw.Status != StatusPaid && anyFailed && gw.PaymentID == "" {
		gw.Status = StatusFailed
	}
	return gw, nil
}
