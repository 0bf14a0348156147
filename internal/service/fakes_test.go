package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deltahost/portal-service/internal/models"
	"github.com/deltahost/portal-service/internal/repository"
)

// In-memory fakes standing in for the pgx repositories. Call counters let
// tests assert that validation failures stop before any storage access.

type fakeUserStore struct {
	users       map[string]*models.PortalUser
	createCalls int
	setBanCalls int
	lastBanned  bool
	lastReason  *string
}

func newFakeUserStore(users ...*models.PortalUser) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*models.PortalUser)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(ctx context.Context, user *models.PortalUser) error {
	s.createCalls++
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id string) (*models.PortalUser, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.PortalUser, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeUserStore) GetAll(ctx context.Context) ([]*models.PortalUser, error) {
	all := make([]*models.PortalUser, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	return all, nil
}

func (s *fakeUserStore) SetBan(ctx context.Context, id string, banned bool, reason *string) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.setBanCalls++
	s.lastBanned = banned
	s.lastReason = reason
	u.IsBanned = banned
	u.BanReason = reason
	return nil
}

type fakeUploader struct {
	calls      int
	lastFolder string
	url        string
	err        error
}

func (u *fakeUploader) Upload(ctx context.Context, folder string, data []byte, contentType string) (string, error) {
	u.calls++
	u.lastFolder = folder
	if u.err != nil {
		return "", u.err
	}
	if u.url != "" {
		return u.url, nil
	}
	return "https://cdn.example.com/" + folder + "/1.png", nil
}

type fakeAudit struct {
	actions []string
}

func (a *fakeAudit) LogAction(ctx context.Context, entityType, entityID, action, status, message string) error {
	a.actions = append(a.actions, fmt.Sprintf("%s:%s:%s", entityType, action, status))
	return nil
}

type fakeOrderStore struct {
	orders       map[string]*models.Order
	createCalls  int
	approveCalls int
	rejectCalls  int
	lastServer   *models.UserServer
	lastReason   *string
	approveErr   error
}

func newFakeOrderStore(orders ...*models.Order) *fakeOrderStore {
	s := &fakeOrderStore{orders: make(map[string]*models.Order)}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *fakeOrderStore) Create(ctx context.Context, order *models.Order) error {
	s.createCalls++
	order.CreatedAt = time.Now()
	s.orders[order.ID] = order
	return nil
}

func (s *fakeOrderStore) GetByID(ctx context.Context, id string) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (s *fakeOrderStore) GetByUserID(ctx context.Context, userID string) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) GetAll(ctx context.Context, status string) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range s.orders {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) ApproveWithServer(ctx context.Context, orderID string, creds *models.ApproveOrderRequest, server *models.UserServer) error {
	s.approveCalls++
	if s.approveErr != nil {
		return s.approveErr
	}
	o, ok := s.orders[orderID]
	if !ok || o.Status != models.OrderStatusPending {
		return fmt.Errorf("order is not pending: %w", repository.ErrNotFound)
	}
	o.Status = models.OrderStatusApproved
	s.lastServer = server
	return nil
}

func (s *fakeOrderStore) Reject(ctx context.Context, orderID string, reason *string) error {
	s.rejectCalls++
	o, ok := s.orders[orderID]
	if !ok || o.Status != models.OrderStatusPending {
		return fmt.Errorf("order is not pending: %w", repository.ErrNotFound)
	}
	o.Status = models.OrderStatusRejected
	o.RejectReason = reason
	s.lastReason = reason
	return nil
}

type fakeServerStore struct {
	servers         map[string]*models.UserServer
	statusCalls     int
	reactivateCalls int
	deleteCalls     int
	lastStatus      string
	lastReason      *string
	lastExpiresAt   time.Time
}

func newFakeServerStore(servers ...*models.UserServer) *fakeServerStore {
	s := &fakeServerStore{servers: make(map[string]*models.UserServer)}
	for _, srv := range servers {
		s.servers[srv.ID] = srv
	}
	return s
}

func (s *fakeServerStore) GetByID(ctx context.Context, id string) (*models.UserServer, error) {
	srv, ok := s.servers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return srv, nil
}

func (s *fakeServerStore) GetByUserID(ctx context.Context, userID string) ([]*models.UserServer, error) {
	var out []*models.UserServer
	for _, srv := range s.servers {
		if srv.UserID == userID {
			out = append(out, srv)
		}
	}
	return out, nil
}

func (s *fakeServerStore) GetAll(ctx context.Context, status string) ([]*models.UserServer, error) {
	var out []*models.UserServer
	for _, srv := range s.servers {
		if status == "" || srv.Status == status {
			out = append(out, srv)
		}
	}
	return out, nil
}

func (s *fakeServerStore) UpdateStatus(ctx context.Context, id, status string, reason *string) error {
	srv, ok := s.servers[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.statusCalls++
	s.lastStatus = status
	s.lastReason = reason
	srv.Status = status
	srv.SuspensionReason = reason
	return nil
}

func (s *fakeServerStore) Reactivate(ctx context.Context, id string, expiresAt time.Time) error {
	srv, ok := s.servers[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.reactivateCalls++
	s.lastExpiresAt = expiresAt
	srv.Status = models.ServerStatusActive
	srv.SuspensionReason = nil
	srv.ExpiresAt = &expiresAt
	return nil
}

func (s *fakeServerStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.servers[id]; !ok {
		return repository.ErrNotFound
	}
	s.deleteCalls++
	delete(s.servers, id)
	return nil
}

type fakeTicketStore struct {
	tickets     map[string]*models.SupportTicket
	messages    []*models.TicketMessage
	createCalls int
	msgCalls    int
	// takenTries makes the first N Create calls fail with ErrTicketIDTaken
	takenTries int
	lastStatus string
}

func newFakeTicketStore(tickets ...*models.SupportTicket) *fakeTicketStore {
	s := &fakeTicketStore{tickets: make(map[string]*models.SupportTicket)}
	for _, t := range tickets {
		s.tickets[t.ID] = t
	}
	return s
}

func (s *fakeTicketStore) Create(ctx context.Context, ticket *models.SupportTicket) error {
	s.createCalls++
	if s.takenTries > 0 {
		s.takenTries--
		return fmt.Errorf("create ticket: %w", repository.ErrTicketIDTaken)
	}
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	s.tickets[ticket.ID] = ticket
	return nil
}

func (s *fakeTicketStore) GetByID(ctx context.Context, id string) (*models.SupportTicket, error) {
	t, ok := s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (s *fakeTicketStore) GetByUserID(ctx context.Context, userID string) ([]*models.SupportTicket, error) {
	var out []*models.SupportTicket
	for _, t := range s.tickets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTicketStore) GetAll(ctx context.Context, status string) ([]*models.SupportTicket, error) {
	var out []*models.SupportTicket
	for _, t := range s.tickets {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTicketStore) UpdateStatus(ctx context.Context, id, status string) error {
	t, ok := s.tickets[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.lastStatus = status
	t.Status = status
	return nil
}

func (s *fakeTicketStore) AddMessage(ctx context.Context, msg *models.TicketMessage) error {
	if _, ok := s.tickets[msg.TicketID]; !ok {
		return repository.ErrNotFound
	}
	s.msgCalls++
	s.messages = append(s.messages, msg)
	return nil
}

func (s *fakeTicketStore) GetMessages(ctx context.Context, ticketID string) ([]*models.TicketMessage, error) {
	var out []*models.TicketMessage
	for _, m := range s.messages {
		if m.TicketID == ticketID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakePublisher struct {
	published []*models.MessageInfo
}

func (p *fakePublisher) Publish(ticketID string, msg *models.MessageInfo) {
	p.published = append(p.published, msg)
}

var errStorageDown = errors.New("storage down")
