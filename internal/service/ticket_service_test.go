package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltahost/portal-service/internal/models"
)

var ticketIDPattern = regexp.MustCompile(`^DH-\d{5}$`)

func newTestTicketService(tickets *fakeTicketStore, users *fakeUserStore, uploader *fakeUploader, pub *fakePublisher) *TicketService {
	return NewTicketService(tickets, users, uploader, pub, &fakeAudit{})
}

func testTicket(userID string) *models.SupportTicket {
	return &models.SupportTicket{
		ID:       "t1",
		TicketID: "DH-00042",
		UserID:   userID,
		Status:   models.TicketStatusOpen,
		Priority: models.TicketPriorityMedium,
	}
}

func TestCreateTicket(t *testing.T) {
	tickets := newFakeTicketStore()
	svc := newTestTicketService(tickets, newFakeUserStore(testCustomer()), &fakeUploader{}, &fakePublisher{})

	info, err := svc.Create(context.Background(), "user-1", &models.CreateTicketRequest{
		Subject:  "Server is down",
		Priority: models.TicketPriorityHigh,
	})
	require.NoError(t, err)

	assert.Regexp(t, ticketIDPattern, info.TicketID)
	assert.Equal(t, models.TicketStatusOpen, info.Status)
	assert.Equal(t, models.TicketPriorityHigh, info.Priority)
	assert.Equal(t, "Ali", info.Name)
}

func TestCreateTicketUnknownPriorityDefaultsToMedium(t *testing.T) {
	tickets := newFakeTicketStore()
	svc := newTestTicketService(tickets, newFakeUserStore(testCustomer()), &fakeUploader{}, &fakePublisher{})

	info, err := svc.Create(context.Background(), "user-1", &models.CreateTicketRequest{
		Subject:  "Billing question",
		Priority: "urgent!!",
	})
	require.NoError(t, err)

	assert.Equal(t, models.TicketPriorityMedium, info.Priority)
}

func TestCreateTicketRetriesOnIDCollision(t *testing.T) {
	tickets := newFakeTicketStore()
	tickets.takenTries = 2
	svc := newTestTicketService(tickets, newFakeUserStore(testCustomer()), &fakeUploader{}, &fakePublisher{})

	info, err := svc.Create(context.Background(), "user-1", &models.CreateTicketRequest{Subject: "Hi"})
	require.NoError(t, err)

	assert.Equal(t, 3, tickets.createCalls)
	assert.Regexp(t, ticketIDPattern, info.TicketID)
}

func TestCreateTicketGivesUpAfterRepeatedCollisions(t *testing.T) {
	tickets := newFakeTicketStore()
	tickets.takenTries = 100
	svc := newTestTicketService(tickets, newFakeUserStore(testCustomer()), &fakeUploader{}, &fakePublisher{})

	_, err := svc.Create(context.Background(), "user-1", &models.CreateTicketRequest{Subject: "Hi"})

	assert.Error(t, err)
	assert.Equal(t, ticketIDAttempts, tickets.createCalls)
}

func TestCreateTicketBannedUser(t *testing.T) {
	user := testCustomer()
	user.IsBanned = true
	tickets := newFakeTicketStore()
	svc := newTestTicketService(tickets, newFakeUserStore(user), &fakeUploader{}, &fakePublisher{})

	_, err := svc.Create(context.Background(), "user-1", &models.CreateTicketRequest{Subject: "Hi"})

	assert.ErrorIs(t, err, ErrUserBanned)
	assert.Zero(t, tickets.createCalls)
}

func TestSendMessageRequiresTextOrImage(t *testing.T) {
	tickets := newFakeTicketStore(testTicket("user-1"))
	uploader := &fakeUploader{}
	pub := &fakePublisher{}
	svc := newTestTicketService(tickets, newFakeUserStore(), uploader, pub)

	_, err := svc.SendMessage(context.Background(), "t1", models.SenderCustomer, "Ali", "   ", nil, "")

	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Zero(t, tickets.msgCalls, "no row should be written")
	assert.Zero(t, uploader.calls)
	assert.Empty(t, pub.published)
}

func TestSendMessageTextOnly(t *testing.T) {
	tickets := newFakeTicketStore(testTicket("user-1"))
	uploader := &fakeUploader{}
	pub := &fakePublisher{}
	svc := newTestTicketService(tickets, newFakeUserStore(), uploader, pub)

	msg, err := svc.SendMessage(context.Background(), "t1", models.SenderCustomer, "Ali", "hello there", nil, "")
	require.NoError(t, err)

	require.NotNil(t, msg.Message)
	assert.Equal(t, "hello there", *msg.Message)
	assert.Nil(t, msg.ImageURL)
	assert.Zero(t, uploader.calls)
	require.Len(t, pub.published, 1)
	assert.Equal(t, msg.ID, pub.published[0].ID)
}

func TestSendMessageImageOnly(t *testing.T) {
	tickets := newFakeTicketStore(testTicket("user-1"))
	uploader := &fakeUploader{url: "https://cdn.example.com/ticket-attachments/1.png"}
	pub := &fakePublisher{}
	svc := newTestTicketService(tickets, newFakeUserStore(), uploader, pub)

	msg, err := svc.SendMessage(context.Background(), "t1", models.SenderAdmin, "Support", "", []byte("img"), "image/png")
	require.NoError(t, err)

	assert.Nil(t, msg.Message, "image-only messages carry no text")
	require.NotNil(t, msg.ImageURL)
	assert.Equal(t, uploader.url, *msg.ImageURL)
	assert.Equal(t, 1, uploader.calls)
	assert.Len(t, pub.published, 1)
}

func TestSendMessageUploadFailure(t *testing.T) {
	tickets := newFakeTicketStore(testTicket("user-1"))
	uploader := &fakeUploader{err: errStorageDown}
	pub := &fakePublisher{}
	svc := newTestTicketService(tickets, newFakeUserStore(), uploader, pub)

	_, err := svc.SendMessage(context.Background(), "t1", models.SenderCustomer, "Ali", "", []byte("img"), "image/png")

	assert.ErrorIs(t, err, errStorageDown)
	assert.Zero(t, tickets.msgCalls)
	assert.Empty(t, pub.published)
}

func TestUpdateStatusRejectsUnknownState(t *testing.T) {
	tickets := newFakeTicketStore(testTicket("user-1"))
	svc := newTestTicketService(tickets, newFakeUserStore(), &fakeUploader{}, &fakePublisher{})

	err := svc.UpdateStatus(context.Background(), "t1", "reopened")

	assert.ErrorIs(t, err, ErrInvalidTicketStatus)
	assert.Empty(t, tickets.lastStatus)
}

func TestUpdateStatusAcceptsAllStates(t *testing.T) {
	for _, status := range []string{
		models.TicketStatusOpen,
		models.TicketStatusInProgress,
		models.TicketStatusResolved,
		models.TicketStatusClosed,
	} {
		t.Run(status, func(t *testing.T) {
			tickets := newFakeTicketStore(testTicket("user-1"))
			svc := newTestTicketService(tickets, newFakeUserStore(), &fakeUploader{}, &fakePublisher{})

			require.NoError(t, svc.UpdateStatus(context.Background(), "t1", status))
			assert.Equal(t, status, tickets.lastStatus)
		})
	}
}

func TestCloseMineOwnership(t *testing.T) {
	tickets := newFakeTicketStore(testTicket("user-1"))
	svc := newTestTicketService(tickets, newFakeUserStore(), &fakeUploader{}, &fakePublisher{})

	err := svc.CloseMine(context.Background(), "t1", "user-2")
	assert.ErrorIs(t, err, ErrNotTicketOwner)

	require.NoError(t, svc.CloseMine(context.Background(), "t1", "user-1"))
	assert.Equal(t, models.TicketStatusClosed, tickets.tickets["t1"].Status)
}

func TestMergeMessages(t *testing.T) {
	at := func(sec int) string {
		return time.Date(2026, 8, 1, 12, 0, sec, 0, time.UTC).Format(time.RFC3339)
	}
	msg := func(id string, sec int) models.MessageInfo {
		return models.MessageInfo{ID: id, TicketID: "t1", CreatedAt: at(sec)}
	}

	existing := []models.MessageInfo{msg("a", 1), msg("b", 2), msg("c", 3)}
	incoming := []models.MessageInfo{msg("b", 2), msg("d", 4), msg("c", 3)}

	merged := MergeMessages(existing, incoming)

	require.Len(t, merged, 4, "duplicates collapse by id")
	for i, want := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, want, merged[i].ID)
	}
}

func TestMergeMessagesOrdersByCreatedAt(t *testing.T) {
	early := models.MessageInfo{ID: "early", CreatedAt: "2026-08-01T10:00:00Z"}
	late := models.MessageInfo{ID: "late", CreatedAt: "2026-08-01T11:00:00Z"}

	// A streamed message can arrive before the poll that also contains it
	merged := MergeMessages([]models.MessageInfo{late}, []models.MessageInfo{early, late})

	require.Len(t, merged, 2)
	assert.Equal(t, "early", merged[0].ID)
	assert.Equal(t, "late", merged[1].ID)
}
