package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Fulfillment statuses.
const (
	OrderPlaced         = "placed"
	OrderConfirmed      = "confirmed"
	OrderProcessing     = "processing"
	OrderShipped        = "shipped"
	OrderOutForDelivery = "out_for_delivery"
	OrderDelivered      = "delivered"
	OrderCancelled      = "cancelled"
	OrderReturned       = "returned"
)

// allowedTransitions is the fulfillment state machine. cancelled is
// reachable from any pre-shipment state, returned only after delivery.
var allowedTransitions = map[string][]string{
	OrderPlaced:         {OrderConfirmed, OrderProcessing, OrderCancelled},
	OrderConfirmed:      {OrderProcessing, OrderCancelled},
	OrderProcessing:     {OrderShipped, OrderCancelled},
	OrderShipped:        {OrderOutForDelivery, OrderDelivered},
	OrderOutForDelivery: {OrderDelivered},
	OrderDelivered:      {OrderReturned},
}

// CanTransition reports whether an order may move from one fulfillment
// status to another. Same-status updates are allowed so an admin can
// amend tracking details without changing state.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderItem is a purchase-time snapshot of one cart line. Name, image
// and unit price are copied from the catalog so later product edits do
// not rewrite historical invoices.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
	Variant   string             `bson:"variant" json:"variant"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	UnitPrice float64            `bson:"unitPrice" json:"unitPrice"`
}

// ShippingAddress is the address snapshot stored on the order.
type ShippingAddress struct {
	Name    string `bson:"name" json:"name"`
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zipCode" json:"zipCode"`
	Phone   string `bson:"phone" json:"phone"`
}

// Order is the authoritative record of a purchase. It is created only
// after the gateway confirms payment and is never deleted; cancellation
// is a status value. Monetary fields are stored independently rather
// than derived, so the invoice stays immutable if pricing rules change.
type Order struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID string             `bson:"orderId" json:"orderId"`
	UserID  primitive.ObjectID `bson:"userId" json:"userId"`
	Items   []OrderItem        `bson:"items" json:"items"`

	Subtotal       float64 `bson:"subtotal" json:"subtotal"`
	Discount       float64 `bson:"discount" json:"discount"`
	DeliveryCharge float64 `bson:"deliveryCharge" json:"deliveryCharge"`
	TaxAmount      float64 `bson:"taxAmount" json:"taxAmount"`
	TotalAmount    float64 `bson:"totalAmount" json:"totalAmount"`

	PaymentStatus  string     `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMode    string     `bson:"paymentMode" json:"paymentMode"`
	GatewayOrderID string     `bson:"gatewayOrderId" json:"gatewayOrderId"`
	PaymentID      string     `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	PaidAt         *time.Time `bson:"paidAt,omitempty" json:"paidAt,omitempty"`

	Status            string     `bson:"status" json:"status"`
	TrackingNumber    string     `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	Courier           string     `bson:"courier,omitempty" json:"courier,omitempty"`
	EstimatedDelivery *time.Time `bson:"estimatedDelivery,omitempty" json:"estimatedDelivery,omitempty"`
	Notes             string     `bson:"notes,omitempty" json:"notes,omitempty"`

	ShippingAddress ShippingAddress `bson:"shippingAddress" json:"shippingAddress"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}
