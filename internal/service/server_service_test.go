package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltahost/portal-service/internal/models"
)

func testServer(status string, expiresAt *time.Time) *models.UserServer {
	return &models.UserServer{
		ID:        "srv-1",
		ServerID:  "SRV-AAAAAA",
		UserID:    "user-1",
		Status:    status,
		ExpiresAt: expiresAt,
	}
}

func TestSuspendDefaultReason(t *testing.T) {
	servers := newFakeServerStore(testServer(models.ServerStatusActive, nil))
	svc := NewServerService(servers, &fakeAudit{})

	require.NoError(t, svc.Suspend(context.Background(), "srv-1", "  "))

	assert.Equal(t, models.ServerStatusSuspended, servers.lastStatus)
	require.NotNil(t, servers.lastReason)
	assert.Equal(t, models.SuspendReasonDefault, *servers.lastReason)
}

func TestSuspendCustomReasonStoredVerbatim(t *testing.T) {
	servers := newFakeServerStore(testServer(models.ServerStatusActive, nil))
	svc := NewServerService(servers, &fakeAudit{})

	require.NoError(t, svc.Suspend(context.Background(), "srv-1", "abuse report #42"))

	require.NotNil(t, servers.lastReason)
	assert.Equal(t, "abuse report #42", *servers.lastReason)
}

func TestMarkForRenewal(t *testing.T) {
	servers := newFakeServerStore(testServer(models.ServerStatusActive, nil))
	svc := NewServerService(servers, &fakeAudit{})

	require.NoError(t, svc.MarkForRenewal(context.Background(), "srv-1"))

	assert.Equal(t, models.ServerStatusRenewalRequired, servers.lastStatus)
	require.NotNil(t, servers.lastReason)
	assert.Equal(t, models.SuspendReasonRenewal, *servers.lastReason)
}

func TestReactivateExtendsFromFutureExpiry(t *testing.T) {
	// 10 days of paid time remain; reactivation must not forfeit them
	future := time.Now().Add(10 * 24 * time.Hour)

	for _, status := range []string{models.ServerStatusSuspended, models.ServerStatusRenewalRequired} {
		t.Run(status, func(t *testing.T) {
			servers := newFakeServerStore(testServer(status, &future))
			svc := NewServerService(servers, &fakeAudit{})

			require.NoError(t, svc.Reactivate(context.Background(), "srv-1"))

			assert.Equal(t, 1, servers.reactivateCalls)
			assert.WithinDuration(t, future.Add(ServerLifetime), servers.lastExpiresAt, time.Second)

			srv := servers.servers["srv-1"]
			assert.Equal(t, models.ServerStatusActive, srv.Status)
			assert.Nil(t, srv.SuspensionReason)
		})
	}
}

func TestReactivateExpiredServerExtendsFromNow(t *testing.T) {
	past := time.Now().Add(-5 * 24 * time.Hour)
	servers := newFakeServerStore(testServer(models.ServerStatusSuspended, &past))
	svc := NewServerService(servers, &fakeAudit{})

	before := time.Now()
	require.NoError(t, svc.Reactivate(context.Background(), "srv-1"))

	assert.WithinDuration(t, before.Add(ServerLifetime), servers.lastExpiresAt, 2*time.Second)
}

func TestReactivateServerWithoutExpiry(t *testing.T) {
	servers := newFakeServerStore(testServer(models.ServerStatusSuspended, nil))
	svc := NewServerService(servers, &fakeAudit{})

	before := time.Now()
	require.NoError(t, svc.Reactivate(context.Background(), "srv-1"))

	assert.WithinDuration(t, before.Add(ServerLifetime), servers.lastExpiresAt, 2*time.Second)
}

func TestDeleteServer(t *testing.T) {
	servers := newFakeServerStore(testServer(models.ServerStatusActive, nil))
	svc := NewServerService(servers, &fakeAudit{})

	require.NoError(t, svc.Delete(context.Background(), "srv-1"))

	assert.Equal(t, 1, servers.deleteCalls)
	assert.Empty(t, servers.servers)
}

func TestListMineFiltersByUser(t *testing.T) {
	mine := testServer(models.ServerStatusActive, nil)
	other := &models.UserServer{ID: "srv-2", UserID: "user-2", Status: models.ServerStatusActive}
	servers := newFakeServerStore(mine, other)
	svc := NewServerService(servers, &fakeAudit{})

	infos, err := svc.ListMine(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, infos, 1)
	assert.Equal(t, "srv-1", infos[0].ID)
}
