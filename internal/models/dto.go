package models

// ==================== Auth DTOs ====================

// RegisterRequest is the body of POST /api/v1/public/register
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the body of POST /api/v1/public/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned on successful register/login
type AuthResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// UserInfo is the customer-visible view of an account
type UserInfo struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	IsBanned  bool    `json:"is_banned"`
	BanReason *string `json:"ban_reason,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// AdminLoginRequest is the body of POST /api/admin/login
type AdminLoginRequest struct {
	AccessCode string `json:"access_code"`
}

// AdminLoginResponse is returned on successful admin login
type AdminLoginResponse struct {
	Authenticated bool   `json:"authenticated"`
	Token         string `json:"token"`
	ExpiresAt     string `json:"expires_at"`
}

// ==================== Catalog DTOs ====================

// LocationInfo is a catalog location entry
type LocationInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Flag      string `json:"flag"`
	SortOrder int    `json:"sort_order"`
}

// PlanInfo is a catalog plan entry with display pricing
type PlanInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Icon         string   `json:"icon"`
	RAM          string   `json:"ram"`
	Performance  string   `json:"performance"`
	LocationCode string   `json:"location_code"`
	Processor    string   `json:"processor"`
	Price        int64    `json:"price"`
	Currency     string   `json:"currency"`
	DisplayPrice string   `json:"display_price"`
	ColorFrom    string   `json:"color_from"`
	ColorTo      string   `json:"color_to"`
	Features     []string `json:"features"`
	Popular      bool     `json:"popular"`
	Availability string   `json:"availability"`
}

// CatalogResponse is returned by GET /api/v1/public/locations/:code/plans
type CatalogResponse struct {
	Location string     `json:"location"`
	Standard []PlanInfo `json:"standard"`
	Epyc     []PlanInfo `json:"epyc"`
}

// PaymentMethodInfo is a checkout payment destination
type PaymentMethodInfo struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Icon          string  `json:"icon"`
	AccountNumber string  `json:"account_number"`
	AccountTitle  string  `json:"account_title"`
	QRCodeURL     *string `json:"qr_code_url,omitempty"`
}

// ==================== Order DTOs ====================

// SubmitOrderRequest is the multipart form of POST /api/v1/my/orders.
// The screenshot file arrives as the "screenshot" form file.
type SubmitOrderRequest struct {
	PlanName      string `form:"plan_name" binding:"required"`
	PlanPrice     int64  `form:"plan_price" binding:"required"`
	PlanRAM       string `form:"plan_ram" binding:"required"`
	Location      string `form:"location" binding:"required"`
	Processor     string `form:"processor" binding:"required"`
	PaymentMethod string `form:"payment_method" binding:"required"`
	TransactionID string `form:"transaction_id"`
}

// OrderInfo is the order view shared by customer and admin lists
type OrderInfo struct {
	ID            string  `json:"id"`
	OrderID       string  `json:"order_id"`
	UserID        string  `json:"user_id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	PlanName      string  `json:"plan_name"`
	PlanPrice     int64   `json:"plan_price"`
	PlanRAM       string  `json:"plan_ram"`
	Location      string  `json:"location"`
	Processor     string  `json:"processor"`
	PaymentMethod string  `json:"payment_method"`
	TransactionID *string `json:"transaction_id,omitempty"`
	ScreenshotURL *string `json:"screenshot_url,omitempty"`
	Status        string  `json:"status"`
	RejectReason  *string `json:"reject_reason,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// ApproveOrderRequest carries the panel credentials written on approval
type ApproveOrderRequest struct {
	PanelLink     string `json:"panel_link" binding:"required"`
	PanelPassword string `json:"panel_password" binding:"required"`
	PanelGmail    string `json:"panel_gmail" binding:"required"`
}

// RejectOrderRequest carries the optional rejection reason
type RejectOrderRequest struct {
	Reason string `json:"reason"`
}

// ==================== Server DTOs ====================

// ServerInfo is the server view returned to customers and admins
type ServerInfo struct {
	ID               string  `json:"id"`
	ServerID         string  `json:"server_id"`
	OrderID          string  `json:"order_id"`
	UserID           string  `json:"user_id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	PlanName         string  `json:"plan_name"`
	PlanPrice        int64   `json:"plan_price"`
	PlanRAM          string  `json:"plan_ram"`
	Location         string  `json:"location"`
	Processor        string  `json:"processor"`
	PanelLink        string  `json:"panel_link"`
	PanelPassword    string  `json:"panel_password"`
	PanelGmail       string  `json:"panel_gmail"`
	Status           string  `json:"status"`
	SuspensionReason *string `json:"suspension_reason,omitempty"`
	ExpiresAt        *string `json:"expires_at,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// SuspendServerRequest carries the suspension reason; empty means the
// canned default
type SuspendServerRequest struct {
	Reason string `json:"reason"`
}

// ==================== Ticket DTOs ====================

// CreateTicketRequest is the body of POST /api/v1/my/tickets
type CreateTicketRequest struct {
	Subject  string `json:"subject" binding:"required"`
	Priority string `json:"priority"`
}

// TicketInfo is the ticket view shared by customer and admin lists
type TicketInfo struct {
	ID        string `json:"id"`
	TicketID  string `json:"ticket_id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// MessageInfo is a single chat entry in a ticket thread
type MessageInfo struct {
	ID         string  `json:"id"`
	TicketID   string  `json:"ticket_id"`
	SenderType string  `json:"sender_type"`
	SenderName string  `json:"sender_name"`
	Message    *string `json:"message,omitempty"`
	ImageURL   *string `json:"image_url,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// UpdateTicketStatusRequest is the admin status change body
type UpdateTicketStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ==================== Admin CRUD DTOs ====================

// PlanRequest is the admin create/update body for both plan tiers
type PlanRequest struct {
	Name         string   `json:"name" binding:"required"`
	Icon         string   `json:"icon"`
	RAM          string   `json:"ram" binding:"required"`
	Performance  string   `json:"performance"`
	LocationCode string   `json:"location_code" binding:"required"`
	Price        int64    `json:"price" binding:"required"`
	Currency     string   `json:"currency"`
	ColorFrom    string   `json:"color_from"`
	ColorTo      string   `json:"color_to"`
	Features     []string `json:"features"`
	Popular      bool     `json:"popular"`
	SortOrder    int      `json:"sort_order"`
	Active       bool     `json:"active"`
}

// LocationRequest is the admin create/update body for locations
type LocationRequest struct {
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code" binding:"required"`
	Flag      string `json:"flag"`
	Active    bool   `json:"active"`
	SortOrder int    `json:"sort_order"`
}

// PaymentMethodRequest is the admin create/update form for payment methods.
// The optional QR code image arrives as the "qr_code" form file.
type PaymentMethodRequest struct {
	Name          string `form:"name" binding:"required"`
	Icon          string `form:"icon"`
	AccountNumber string `form:"account_number" binding:"required"`
	AccountTitle  string `form:"account_title" binding:"required"`
	SortOrder     int    `form:"sort_order"`
}

// BanUserRequest carries the ban reason; empty means the default
type BanUserRequest struct {
	Reason string `json:"reason"`
}
