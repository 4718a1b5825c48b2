// Package payments implements the two halves of checkout: opening a
// hosted-checkout session with the gateway, and materializing an
// order once the gateway confirms the payment. No order row exists
// before confirmation, so an abandoned checkout leaves nothing behind.
package payments

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/models"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/services/pricing"
)

var (
	ErrMissingPhone   = errors.New("shipping address is missing a contact number")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrBadAmount      = errors.New("order amount must be a positive number")
	ErrAmountMismatch = errors.New("paid amount does not match the cart total")
)

// EscalationError marks a database failure that happened after the
// gateway confirmed the payment. Money has moved but the record did
// not persist, so the caller must surface a support-escalation
// message rather than a plain error.
type EscalationError struct {
	Err error
}

func (e *EscalationError) Error() string {
	return "payment captured but order could not be recorded, contact support: " + e.Err.Error()
}

func (e *EscalationError) Unwrap() error { return e.Err }

// CheckoutItem is one cart line resolved against the catalog.
type CheckoutItem struct {
	ProductID primitive.ObjectID
	Name      string
	Image     string
	Variant   string
	Quantity  int
	UnitPrice float64
	Grams     int
}

// Session is what the client needs to open the hosted checkout.
type Session struct {
	OrderID        string            `json:"orderId"`
	GatewayOrderID string            `json:"gatewayOrderId"`
	Amount         float64           `json:"amount"`
	Currency       string            `json:"currency"`
	Breakdown      pricing.Breakdown `json:"breakdown"`
}

// VerifyOutcome is the result of one verification poll.
type VerifyOutcome struct {
	// State is "confirmed", "cancelled" or "processing".
	State     string        `json:"state"`
	Retryable bool          `json:"retryable"`
	Order     *models.Order `json:"order,omitempty"`
}

// Mailer sends the best-effort order confirmation. A nil Mailer
// disables mail entirely.
type Mailer interface {
	SendOrderConfirmation(to string, order *models.Order) error
}

type Service struct {
	gateway Gateway
	store   OrderStore
	mailer  Mailer
	now     func() time.Time
	orderID func() string
}

func NewService(gateway Gateway, store OrderStore, mailer Mailer) *Service {
	return &Service{
		gateway: gateway,
		store:   store,
		mailer:  mailer,
		now:     time.Now,
		orderID: NewOrderID,
	}
}

// NewOrderID builds the human-readable order identifier: a timestamp
// plus a random suffix, so ids sort by purchase time and never repeat.
func NewOrderID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("LCP-%s-%s", time.Now().Format("20060102150405"), suffix)
}

// NormalizePhone keeps the last ten digits of a contact number, which
// is the format the gateway validates against.
func NormalizePhone(phone string) string {
	digits := make([]rune, 0, len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return string(digits)
}

func paise(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateSession prices the cart server-side and opens a gateway
// session. Nothing is written to the database: the order does not
// exist until the gateway confirms payment, which is what keeps
// abandoned checkouts from leaving pending-forever rows around.
// The address must carry a phone; without one the gateway is never
// contacted.
func (s *Service) CreateSession(ctx context.Context, user *models.User, addr models.Address, items []CheckoutItem) (*Session, error) {
	if strings.TrimSpace(addr.Phone) == "" {
		return nil, ErrMissingPhone
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	breakdown := pricing.Compute(toLines(items), addr.City, decimal.Zero)
	if breakdown.TotalAmount <= 0 {
		return nil, ErrBadAmount
	}

	orderID := s.orderID()
	notes := map[string]interface{}{
		"orderId":   orderID,
		"userId":    user.Id.Hex(),
		"addressId": addr.Id.Hex(),
		"email":     user.Email,
		"phone":     NormalizePhone(addr.Phone),
	}

	gatewayID, err := s.gateway.CreateOrder(paise(breakdown.TotalAmount), "INR", orderID, notes)
	if err != nil {
		return nil, fmt.Errorf("gateway order create: %w", err)
	}

	return &Session{
		OrderID:        orderID,
		GatewayOrderID: gatewayID,
		Amount:         breakdown.TotalAmount,
		Currency:       "INR",
		Breakdown:      breakdown,
	}, nil
}

// VerifyPayment polls the gateway for the authoritative status of a
// session and materializes the order accordingly.
//
// PAID: recompute the cart total and require it to equal the amount
// the gateway collected; a cart edited or emptied after the session
// was opened escalates instead of minting an invoice that diverges
// from the charge. On a match, create the order exactly once
// (idempotency check plus a unique-index fallback) and attempt a
// confirmation email. FAILED: record a terminal cancelled order once,
// purely for failure auditing. Anything else: report processing with
// a retryable flag and write nothing.
func (s *Service) VerifyPayment(ctx context.Context, user *models.User, orderID, gatewayOrderID string, addr models.Address, items []CheckoutItem) (*VerifyOutcome, error) {
	existing, err := s.store.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return outcomeFor(existing), nil
	}

	gw, err := s.gateway.FetchOrder(gatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("gateway status fetch: %w", err)
	}

	switch gw.Status {
	case StatusPaid:
		return s.materializeOrder(ctx, user, orderID, gw, addr, items)
	case StatusFailed:
		return s.recordFailedOrder(ctx, user, orderID, gw, addr, items)
	default:
		return &VerifyOutcome{State: "processing", Retryable: true}, nil
	}
}

func (s *Service) materializeOrder(ctx context.Context, user *models.User, orderID string, gw *GatewayOrder, addr models.Address, items []CheckoutItem) (*VerifyOutcome, error) {
	order := s.buildOrder(user, orderID, gw, addr, items)

	// The invoice must describe what was actually charged. The cart is
	// the only source for the item snapshot, so if it no longer prices
	// to the captured amount the order cannot be trusted and a human
	// has to reconcile the payment.
	if gw.Amount > 0 && paise(order.TotalAmount) != gw.Amount {
		return nil, &EscalationError{Err: fmt.Errorf(
			"%w: gateway captured %d paise, cart prices to %d paise",
			ErrAmountMismatch, gw.Amount, paise(order.TotalAmount))}
	}

	paidAt := s.now()
	order.PaymentStatus = models.PaymentCompleted
	order.PaymentID = gw.PaymentID
	order.PaidAt = &paidAt
	order.Status = models.OrderPlaced

	if err := s.store.Insert(ctx, order); err != nil {
		if errors.Is(err, ErrDuplicateOrderID) {
			// A concurrent verification won the insert; return its row.
			winner, findErr := s.store.FindByOrderID(ctx, orderID)
			if findErr != nil || winner == nil {
				return nil, &EscalationError{Err: err}
			}
			return outcomeFor(winner), nil
		}
		return nil, &EscalationError{Err: err}
	}

	// The orders collection is authoritative from here on. The embedded
	// history copy and the cart clear are denormalized conveniences; a
	// retry would never reach them again (the idempotency pre-check
	// returns first), so log their failures instead of escalating a
	// payment that is fully recorded.
	if err := s.store.AppendUserOrder(ctx, user.Id, order); err != nil {
		log.Println("order history append failed:", err)
	}
	if err := s.store.EmptyCart(ctx, user.Id); err != nil {
		log.Println("cart clear after payment failed:", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendOrderConfirmation(user.Email, order); err != nil {
			log.Println("order confirmation email failed:", err)
		}
	}

	return &VerifyOutcome{State: "confirmed", Order: order}, nil
}

func (s *Service) recordFailedOrder(ctx context.Context, user *models.User, orderID string, gw *GatewayOrder, addr models.Address, items []CheckoutItem) (*VerifyOutcome, error) {
	order := s.buildOrder(user, orderID, gw, addr, items)
	order.PaymentStatus = models.PaymentFailed
	order.Status = models.OrderCancelled

	if err := s.store.Insert(ctx, order); err != nil {
		if errors.Is(err, ErrDuplicateOrderID) {
			winner, findErr := s.store.FindByOrderID(ctx, orderID)
			if findErr == nil && winner != nil {
				return outcomeFor(winner), nil
			}
		}
		return nil, err
	}
	return &VerifyOutcome{State: "cancelled", Order: order}, nil
}

func (s *Service) buildOrder(user *models.User, orderID string, gw *GatewayOrder, addr models.Address, items []CheckoutItem) *models.Order {
	breakdown := pricing.Compute(toLines(items), addr.City, decimal.Zero)
	now := s.now()

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Variant:   item.Variant,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return &models.Order{
		OrderID:        orderID,
		UserID:         user.Id,
		Items:          orderItems,
		Subtotal:       breakdown.Subtotal,
		Discount:       breakdown.Discount,
		DeliveryCharge: breakdown.DeliveryCharge,
		TaxAmount:      breakdown.TaxAmount,
		TotalAmount:    breakdown.TotalAmount,
		PaymentStatus:  models.PaymentPending,
		PaymentMode:    "online",
		GatewayOrderID: gw.ID,
		ShippingAddress: models.ShippingAddress{
			Name:    addr.Name,
			Street:  addr.Street,
			City:    addr.City,
			State:   addr.State,
			ZipCode: addr.ZipCode,
			Phone:   NormalizePhone(addr.Phone),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func outcomeFor(order *models.Order) *VerifyOutcome {
	state := "confirmed"
	if order.PaymentStatus == models.PaymentFailed {
		state = "cancelled"
	}
	return &VerifyOutcome{State: state, Order: order}
}

func toLines(items []CheckoutItem) []pricing.Line {
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, pricing.Line{
			Name:      item.Name,
			UnitPrice: decimal.NewFromFloat(item.UnitPrice),
			Grams:     item.Grams,
			Quantity:  item.Quantity,
		})
	}
	return lines
}
