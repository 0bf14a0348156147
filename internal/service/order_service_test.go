package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltahost/portal-service/internal/models"
	"github.com/deltahost/portal-service/internal/storage"
)

func testCustomer() *models.PortalUser {
	return &models.PortalUser{
		ID:    "user-1",
		Email: "ali@example.com",
		Name:  "Ali",
	}
}

func testOrderRequest() *models.SubmitOrderRequest {
	return &models.SubmitOrderRequest{
		PlanName:      "Blaze",
		PlanPrice:     1500,
		PlanRAM:       "8GB",
		Location:      "india",
		Processor:     models.ProcessorIntel,
		PaymentMethod: "easypaisa",
		TransactionID: "TXN-123",
	}
}

func TestSubmitOrderValidationStopsBeforeStorage(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *models.SubmitOrderRequest) ([]byte, string)
		wantErr error
	}{
		{
			name: "missing transaction id",
			mutate: func(req *models.SubmitOrderRequest) ([]byte, string) {
				req.TransactionID = "   "
				return []byte("img"), "image/png"
			},
			wantErr: ErrTransactionIDRequired,
		},
		{
			name: "missing screenshot",
			mutate: func(req *models.SubmitOrderRequest) ([]byte, string) {
				return nil, ""
			},
			wantErr: ErrScreenshotRequired,
		},
		{
			name: "oversized screenshot",
			mutate: func(req *models.SubmitOrderRequest) ([]byte, string) {
				return make([]byte, storage.MaxUploadBytes+1), "image/png"
			},
			wantErr: storage.ErrTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := newFakeOrderStore()
			users := newFakeUserStore(testCustomer())
			uploader := &fakeUploader{}
			svc := NewOrderService(orders, users, uploader, &fakeAudit{})

			req := testOrderRequest()
			screenshot, contentType := tt.mutate(req)

			_, err := svc.Submit(context.Background(), "user-1", req, screenshot, contentType)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, uploader.calls, "nothing should be uploaded")
			assert.Zero(t, orders.createCalls, "no order row should be written")
		})
	}
}

func TestSubmitOrderBannedUser(t *testing.T) {
	reason := "chargeback abuse"
	user := testCustomer()
	user.IsBanned = true
	user.BanReason = &reason

	orders := newFakeOrderStore()
	uploader := &fakeUploader{}
	svc := NewOrderService(orders, newFakeUserStore(user), uploader, &fakeAudit{})

	_, err := svc.Submit(context.Background(), "user-1", testOrderRequest(), []byte("img"), "image/png")

	assert.ErrorIs(t, err, ErrUserBanned)
	assert.Contains(t, err.Error(), "chargeback abuse")
	assert.Zero(t, uploader.calls)
	assert.Zero(t, orders.createCalls)
}

func TestSubmitOrder(t *testing.T) {
	orders := newFakeOrderStore()
	uploader := &fakeUploader{url: "https://cdn.example.com/payment-screenshots/1.png"}
	svc := NewOrderService(orders, newFakeUserStore(testCustomer()), uploader, &fakeAudit{})

	info, err := svc.Submit(context.Background(), "user-1", testOrderRequest(), []byte("img"), "image/png")

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, info.Status)
	assert.True(t, strings.HasPrefix(info.OrderID, "ORD-"))
	assert.Equal(t, "Ali", info.Name)
	assert.Equal(t, "ali@example.com", info.Email)
	require.NotNil(t, info.ScreenshotURL)
	assert.Equal(t, uploader.url, *info.ScreenshotURL)
	assert.Equal(t, storage.FolderScreenshots, uploader.lastFolder)
	assert.Equal(t, 1, orders.createCalls)
}

func TestApproveRequiresAllPanelFields(t *testing.T) {
	tests := []struct {
		name  string
		creds models.ApproveOrderRequest
	}{
		{"missing link", models.ApproveOrderRequest{PanelPassword: "pw", PanelGmail: "g@x.com"}},
		{"missing password", models.ApproveOrderRequest{PanelLink: "https://panel", PanelGmail: "g@x.com"}},
		{"missing gmail", models.ApproveOrderRequest{PanelLink: "https://panel", PanelPassword: "pw"}},
		{"all blank", models.ApproveOrderRequest{PanelLink: " ", PanelPassword: " ", PanelGmail: " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := newFakeOrderStore(&models.Order{ID: "o1", Status: models.OrderStatusPending})
			svc := NewOrderService(orders, newFakeUserStore(), &fakeUploader{}, &fakeAudit{})

			_, err := svc.Approve(context.Background(), "o1", &tt.creds)

			assert.ErrorIs(t, err, ErrPanelFieldsRequired)
			assert.Zero(t, orders.approveCalls)
		})
	}
}

func TestApproveSnapshotsOrderFields(t *testing.T) {
	order := &models.Order{
		ID:        "o1",
		OrderID:   "ORD-AAAAAA",
		UserID:    "user-1",
		Name:      "Ali",
		Email:     "ali@example.com",
		PlanName:  "Blaze",
		PlanPrice: 1500,
		PlanRAM:   "8GB",
		Location:  "india",
		Processor: models.ProcessorIntel,
		Status:    models.OrderStatusPending,
	}
	orders := newFakeOrderStore(order)
	audit := &fakeAudit{}
	svc := NewOrderService(orders, newFakeUserStore(), &fakeUploader{}, audit)

	creds := &models.ApproveOrderRequest{
		PanelLink:     "https://panel.deltahost.pk",
		PanelPassword: "s3cret",
		PanelGmail:    "panels@deltahost.pk",
	}

	before := time.Now()
	info, err := svc.Approve(context.Background(), "o1", creds)
	require.NoError(t, err)

	server := orders.lastServer
	require.NotNil(t, server)

	// Plan and user fields copied verbatim from the order
	assert.Equal(t, order.ID, server.OrderID)
	assert.Equal(t, order.UserID, server.UserID)
	assert.Equal(t, order.Name, server.Name)
	assert.Equal(t, order.Email, server.Email)
	assert.Equal(t, order.PlanName, server.PlanName)
	assert.Equal(t, order.PlanPrice, server.PlanPrice)
	assert.Equal(t, order.PlanRAM, server.PlanRAM)
	assert.Equal(t, order.Location, server.Location)
	assert.Equal(t, order.Processor, server.Processor)

	assert.Equal(t, models.ServerStatusActive, server.Status)
	assert.True(t, strings.HasPrefix(server.ServerID, "SRV-"))
	assert.Equal(t, "https://panel.deltahost.pk", server.PanelLink)

	require.NotNil(t, server.ExpiresAt)
	assert.WithinDuration(t, before.Add(ServerLifetime), *server.ExpiresAt, 2*time.Second)

	assert.Equal(t, server.ServerID, info.ServerID)
	assert.Equal(t, models.OrderStatusApproved, order.Status)
	assert.Contains(t, audit.actions, "order:approve:ok")
}

func TestApproveNonPendingOrder(t *testing.T) {
	orders := newFakeOrderStore(&models.Order{ID: "o1", Status: models.OrderStatusApproved})
	svc := NewOrderService(orders, newFakeUserStore(), &fakeUploader{}, &fakeAudit{})

	creds := &models.ApproveOrderRequest{PanelLink: "l", PanelPassword: "p", PanelGmail: "g"}
	_, err := svc.Approve(context.Background(), "o1", creds)

	assert.Error(t, err)
}

func TestRejectOrder(t *testing.T) {
	orders := newFakeOrderStore(&models.Order{ID: "o1", Status: models.OrderStatusPending})
	svc := NewOrderService(orders, newFakeUserStore(), &fakeUploader{}, &fakeAudit{})

	require.NoError(t, svc.Reject(context.Background(), "o1", "blurry screenshot"))

	require.NotNil(t, orders.lastReason)
	assert.Equal(t, "blurry screenshot", *orders.lastReason)
	assert.Equal(t, models.OrderStatusRejected, orders.orders["o1"].Status)
}

func TestRejectOrderWithoutReason(t *testing.T) {
	orders := newFakeOrderStore(&models.Order{ID: "o1", Status: models.OrderStatusPending})
	svc := NewOrderService(orders, newFakeUserStore(), &fakeUploader{}, &fakeAudit{})

	require.NoError(t, svc.Reject(context.Background(), "o1", ""))

	assert.Nil(t, orders.lastReason)
}
