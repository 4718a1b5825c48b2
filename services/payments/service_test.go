package payments

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/models"
)

type stubGateway struct {
	created      []string
	createErr    error
	order        *GatewayOrder
	fetchErr     error
	fetchCount   int
	lastAmount   int64
	lastNotes    map[string]interface{}
	nextOrderSeq int
}

func (g *stubGateway) CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (string, error) {
	if g.createErr != nil {
		return "", g.createErr
	}
	g.nextOrderSeq++
	g.lastAmount = amountPaise
	g.lastNotes = notes
	id := "order_stub_" + receipt
	g.created = append(g.created, id)
	return id, nil
}

func (g *stubGateway) FetchOrder(id string) (*GatewayOrder, error) {
	g.fetchCount++
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	return g.order, nil
}

type stubStore struct {
	orders      map[string]*models.Order
	userOrders  []*models.Order
	cartEmptied int
	insertErr   error
	appendErr   error
	emptyErr    error
	// skipFinds makes FindByOrderID report "absent" for the first N
	// calls, simulating a concurrent insert racing past the
	// idempotency pre-check.
	skipFinds int
}

func newStubStore() *stubStore {
	return &stubStore{orders: make(map[string]*models.Order)}
}

func (s *stubStore) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	if s.skipFinds > 0 {
		s.skipFinds--
		return nil, nil
	}
	return s.orders[orderID], nil
}

func (s *stubStore) Insert(ctx context.Context, order *models.Order) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	if _, exists := s.orders[order.OrderID]; exists {
		return ErrDuplicateOrderID
	}
	s.orders[order.OrderID] = order
	return nil
}

func (s *stubStore) AppendUserOrder(ctx context.Context, userID primitive.ObjectID, order *models.Order) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.userOrders = append(s.userOrders, order)
	return nil
}

func (s *stubStore) EmptyCart(ctx context.Context, userID primitive.ObjectID) error {
	if s.emptyErr != nil {
		return s.emptyErr
	}
	s.cartEmptied++
	return nil
}

type stubMailer struct {
	sent []string
	err  error
}

func (m *stubMailer) SendOrderConfirmation(to string, order *models.Order) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func testUser() *models.User {
	return &models.User{
		Id:    primitive.NewObjectID(),
		Name:  "Priya",
		Email: "priya@example.com",
	}
}

func testAddress() models.Address {
	return models.Address{
		Id:      primitive.NewObjectID(),
		Name:    "Priya",
		Street:  "12 Rue Romain Rolland",
		City:    "Pondicherry",
		State:   "Puducherry",
		ZipCode: "605001",
		Phone:   "+91 98765 43210",
	}
}

func testItems() []CheckoutItem {
	return []CheckoutItem{
		{
			ProductID: primitive.NewObjectID(),
			Name:      "Aged Gouda",
			Image:     "https://img.example.com/gouda.jpg",
			Variant:   "200g",
			Quantity:  2,
			UnitPrice: 320,
			Grams:     200,
		},
	}
}

func TestNewOrderID(t *testing.T) {
	id1 := NewOrderID()
	id2 := NewOrderID()

	assert.Regexp(t, regexp.MustCompile(`^LCP-\d{14}-[0-9A-F]{6}$`), id1)
	assert.NotEqual(t, id1, id2)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "9876543210", NormalizePhone("+91 98765 43210"))
	assert.Equal(t, "9876543210", NormalizePhone("9876543210"))
	assert.Equal(t, "43210", NormalizePhone("43210"))
}

func TestCreateSessionMissingPhoneSkipsGateway(t *testing.T) {
	gateway := &stubGateway{}
	svc := NewService(gateway, newStubStore(), nil)

	addr := testAddress()
	addr.Phone = "  "

	session, err := svc.CreateSession(context.Background(), testUser(), addr, testItems())

	assert.ErrorIs(t, err, ErrMissingPhone)
	assert.Nil(t, session)
	assert.Empty(t, gateway.created, "gateway must not be contacted without a phone")
}

func TestCreateSessionEmptyCart(t *testing.T) {
	svc := NewService(&stubGateway{}, newStubStore(), nil)

	_, err := svc.CreateSession(context.Background(), testUser(), testAddress(), nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateSessionPricesServerSide(t *testing.T) {
	gateway := &stubGateway{}
	store := newStubStore()
	svc := NewService(gateway, store, nil)

	session, err := svc.CreateSession(context.Background(), testUser(), testAddress(), testItems())
	require.NoError(t, err)

	// 320*2 subtotal, in-region delivery 40, tax 26 -> total 706.
	assert.Equal(t, 706.0, session.Amount)
	assert.Equal(t, int64(70600), gateway.lastAmount)
	assert.Equal(t, 640.0, session.Breakdown.Subtotal)
	assert.Equal(t, 40.0, session.Breakdown.DeliveryCharge)
	assert.Equal(t, 26.0, session.Breakdown.TaxAmount)
	assert.NotEmpty(t, session.OrderID)
	assert.Equal(t, "order_stub_"+session.OrderID, session.GatewayOrderID)

	// No database write happens at session time.
	assert.Empty(t, store.orders)

	// The gateway receives the normalized phone.
	assert.Equal(t, "9876543210", gateway.lastNotes["phone"])
}

func TestVerifyPaidCreatesOrderOnce(t *testing.T) {
	gateway := &stubGateway{order: &GatewayOrder{
		ID: "order_stub_1", Amount: 70600, Status: StatusPaid, PaymentID: "pay_123",
	}}
	store := newStubStore()
	mailer := &stubMailer{}
	svc := NewService(gateway, store, mailer)
	user := testUser()

	outcome, err := svc.VerifyPayment(context.Background(), user, "LCP-1", "order_stub_1", testAddress(), testItems())
	require.NoError(t, err)

	assert.Equal(t, "confirmed", outcome.State)
	require.NotNil(t, outcome.Order)
	assert.Equal(t, "LCP-1", outcome.Order.OrderID)
	assert.Equal(t, models.PaymentCompleted, outcome.Order.PaymentStatus)
	assert.Equal(t, models.OrderPlaced, outcome.Order.Status)
	assert.Equal(t, "pay_123", outcome.Order.PaymentID)
	assert.Equal(t, 706.0, outcome.Order.TotalAmount)
	assert.Equal(t, "Aged Gouda", outcome.Order.Items[0].Name)
	assert.Equal(t, 1, store.cartEmptied)
	assert.Len(t, store.userOrders, 1)
	assert.Equal(t, []string{"priya@example.com"}, mailer.sent)

	// Second verification for the same orderId returns the same
	// order without touching the gateway or writing again.
	fetchesBefore := gateway.fetchCount
	outcome2, err := svc.VerifyPayment(context.Background(), user, "LCP-1", "order_stub_1", testAddress(), testItems())
	require.NoError(t, err)
	assert.Equal(t, "confirmed", outcome2.State)
	assert.Equal(t, outcome.Order.OrderID, outcome2.Order.OrderID)
	assert.Equal(t, fetchesBefore, gateway.fetchCount)
	assert.Equal(t, 1, store.cartEmptied)
	assert.Len(t, store.orders, 1)
}

func TestVerifyPaidCartDriftEscalates(t *testing.T) {
	// The gateway captured the session-time total, but the cart was
	// edited before verification and now prices to something else.
	gateway := &stubGateway{order: &GatewayOrder{
		ID: "gw1", Amount: 70600, Status: StatusPaid, PaymentID: "pay_123",
	}}
	store := newStubStore()
	svc := NewService(gateway, store, nil)

	items := testItems()
	items[0].Quantity = 4

	_, err := svc.VerifyPayment(context.Background(), testUser(), "LCP-8", "gw1", testAddress(), items)

	var escalation *EscalationError
	require.ErrorAs(t, err, &escalation)
	assert.ErrorIs(t, err, ErrAmountMismatch)
	assert.Empty(t, store.orders, "a mismatched charge must not mint an order")
	assert.Equal(t, 0, store.cartEmptied)
}

func TestVerifyPaidEmptiedCartEscalates(t *testing.T) {
	gateway := &stubGateway{order: &GatewayOrder{
		ID: "gw1", Amount: 70600, Status: StatusPaid,
	}}
	store := newStubStore()
	svc := NewService(gateway, store, nil)

	_, err := svc.VerifyPayment(context.Background(), testUser(), "LCP-9", "gw1", testAddress(), nil)

	var escalation *EscalationError
	require.ErrorAs(t, err, &escalation)
	assert.ErrorIs(t, err, ErrAmountMismatch)
	assert.Empty(t, store.orders, "a paid charge must never become a zero-item order")
}

func TestVerifyPaidHistoryAndCartFailuresAreNotFatal(t *testing.T) {
	gateway := &stubGateway{order: &GatewayOrder{ID: "gw1", Status: StatusPaid}}
	store := newStubStore()
	store.appendErr = errors.New("users collection down")
	store.emptyErr = errors.New("users collection down")
	svc := NewService(gateway, store, nil)

	outcome, err := svc.VerifyPayment(context.Background(), testUser(), "LCP-10", "gw1", testAddress(), testItems())

	require.NoError(t, err)
	assert.Equal(t, "confirmed", outcome.State)
	assert.Len(t, store.orders, 1, "the authoritative order row must survive denormalization failures")
}

func TestVerifyPaidEmailFailureIsNotFatal(t *testing.T) {
	gateway := &stubGateway{order: &GatewayOrder{ID: "gw1", Status: StatusPaid}}
	store := newStubStore()
	mailer := &stubMailer{err: errors.New("smtp down")}
	svc := NewService(gateway, store, mailer)

	outcome, err := svc.VerifyPayment(context.Background(), testUser(), "LCP-2", "gw1", testAddress(), testItems())
	require.NoError(t, err)
	assert.Equal(t, "confirmed", outcome.State)
}

func TestVerifyPaidInsertFailureEscalates(t *testing.T) {
	gateway := &stubGateway{order: &GatewayOrder{ID: "gw1", Status: StatusPaid}}
	store := newStubStore()
	store.insertErr = errors.New("disk full")
	svc := NewService(gateway, store, nil)

	_, err := svc.VerifyPayment(context.Background(), testUser(), "LCP-3", "gw1", testAddress(), testItems())

	var escalation *EscalationError
	require.ErrorAs(t, err, &escalation)
	assert.Contains(t, escalation.Error(), "contact support")
}

func TestVerifyPaidDuplicateInsertReturnsWinner(t *testing.T) {
	gateway := &stubGateway{order: &GatewayOrder{ID: "gw1", Status: StatusPaid}}
	store := newStubStore()
	// Simulate a concurrent verification landing first: the row
	// exists, but the idempotency pre-check races past it and the
	// unique index rejects our insert.
	winner := &models.Order{OrderID: "LCP-4", PaymentStatus: models.PaymentCompleted}
	store.orders["LCP-4"] = winner
	store.skipFinds = 1
	svc := NewService(gateway, store, nil)

	outcome, err := svc.VerifyPayment(context.Background(), testUser(), "LCP-4", "gw1", testAddress(), testItems())
	require.NoError(t, err)
	assert.Equal(t, "confirmed", outcome.State)
	assert.Same(t, winner, outcome.Order)
}

func TestVerifyFailedCreatesCancelledAuditOnce(t *testing.T) {
	gateway := &stubGateway{order: &GatewayOrder{ID: "gw1", Status: StatusFailed}}
	store := newStubStore()
	svc := NewService(gateway, store, nil)
	user := testUser()

	outcome, err := svc.VerifyPayment(context.Background(), user, "LCP-5", "gw1", testAddress(), testItems())
	require.NoError(t, err)

	assert.Equal(t, "cancelled", outcome.State)
	require.NotNil(t, outcome.Order)
	assert.Equal(t, models.PaymentFailed, outcome.Order.PaymentStatus)
	assert.Equal(t, models.OrderCancelled, outcome.Order.Status)
	assert.Equal(t, 0, store.cartEmptied, "failed payment must not empty the cart")
	assert.Empty(t, store.userOrders)

	// Repeat verification does not create a second audit record.
	outcome2, err := svc.VerifyPayment(context.Background(), user, "LCP-5", "gw1", testAddress(), testItems())
	require.NoError(t, err)
	assert.Equal(t, "cancelled", outcome2.State)
	assert.Len(t, store.orders, 1)
}

func TestVerifyPendingIsRetryable(t *testing.T) {
	gateway := &stubGateway{order: &GatewayOrder{ID: "gw1", Status: StatusPending}}
	store := newStubStore()
	svc := NewService(gateway, store, nil)

	outcome, err := svc.VerifyPayment(context.Background(), testUser(), "LCP-6", "gw1", testAddress(), testItems())
	require.NoError(t, err)

	assert.Equal(t, "processing", outcome.State)
	assert.True(t, outcome.Retryable)
	assert.Nil(t, outcome.Order)
	assert.Empty(t, store.orders, "pending status must not write anything")
}

func TestVerifyGatewayErrorSurfaces(t *testing.T) {
	gateway := &stubGateway{fetchErr: errors.New("gateway timeout")}
	svc := NewService(gateway, newStubStore(), nil)

	_, err := svc.VerifyPayment(context.Background(), testUser(), "LCP-7", "gw1", testAddress(), testItems())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway timeout")
}
