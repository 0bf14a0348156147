package db

const bootstrapSchema = `
CREATE TABLE IF NOT EXISTS portal.locations (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    code TEXT NOT NULL UNIQUE,
    flag TEXT NOT NULL DEFAULT '',
    active BOOLEAN NOT NULL DEFAULT TRUE,
    sort_order INT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS portal.hosting_plans (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    icon TEXT NOT NULL DEFAULT '',
    ram TEXT NOT NULL,
    performance TEXT NOT NULL DEFAULT '',
    location_code TEXT NOT NULL,
    price BIGINT NOT NULL,
    currency TEXT NOT NULL DEFAULT 'PKR',
    color_from TEXT NOT NULL DEFAULT '',
    color_to TEXT NOT NULL DEFAULT '',
    features TEXT[] NOT NULL DEFAULT '{}',
    popular BOOLEAN NOT NULL DEFAULT FALSE,
    sort_order INT NOT NULL DEFAULT 0,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS portal.epyc_plans (
    LIKE portal.hosting_plans INCLUDING ALL
);

CREATE TABLE IF NOT EXISTS portal.payment_methods (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    icon TEXT NOT NULL DEFAULT '',
    account_number TEXT NOT NULL,
    account_title TEXT NOT NULL,
    qr_code_url TEXT,
    sort_order INT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS portal.portal_users (
    id UUID PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    is_banned BOOLEAN NOT NULL DEFAULT FALSE,
    ban_reason TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS portal.orders (
    id UUID PRIMARY KEY,
    order_id TEXT NOT NULL UNIQUE,
    user_id UUID NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    plan_name TEXT NOT NULL,
    plan_price BIGINT NOT NULL,
    plan_ram TEXT NOT NULL,
    location TEXT NOT NULL,
    processor TEXT NOT NULL,
    payment_method TEXT NOT NULL,
    transaction_id TEXT,
    screenshot_url TEXT,
    panel_link TEXT,
    panel_password TEXT,
    panel_gmail TEXT,
    status TEXT NOT NULL DEFAULT 'pending',
    reject_reason TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON portal.orders (user_id);
CREATE INDEX IF NOT EXISTS idx_orders_status ON portal.orders (status);

CREATE TABLE IF NOT EXISTS portal.user_servers (
    id UUID PRIMARY KEY,
    server_id TEXT NOT NULL UNIQUE,
    order_id UUID NOT NULL,
    user_id UUID NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    plan_name TEXT NOT NULL,
    plan_price BIGINT NOT NULL,
    plan_ram TEXT NOT NULL,
    location TEXT NOT NULL,
    processor TEXT NOT NULL,
    panel_link TEXT NOT NULL,
    panel_password TEXT NOT NULL,
    panel_gmail TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active',
    suspension_reason TEXT,
    expires_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_user_servers_user ON portal.user_servers (user_id);

CREATE TABLE IF NOT EXISTS portal.support_tickets (
    id UUID PRIMARY KEY,
    ticket_id TEXT NOT NULL UNIQUE,
    user_id UUID NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    subject TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'open',
    priority TEXT NOT NULL DEFAULT 'medium',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_tickets_user ON portal.support_tickets (user_id);
CREATE INDEX IF NOT EXISTS idx_tickets_status ON portal.support_tickets (status);

CREATE TABLE IF NOT EXISTS portal.ticket_messages (
    id UUID PRIMARY KEY,
    ticket_id UUID NOT NULL,
    sender_type TEXT NOT NULL,
    sender_name TEXT NOT NULL,
    message TEXT,
    image_url TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_ticket_messages_ticket ON portal.ticket_messages (ticket_id, created_at);

CREATE TABLE IF NOT EXISTS portal.audit_logs (
    id UUID PRIMARY KEY,
    entity_type TEXT NOT NULL,
    entity_id TEXT NOT NULL,
    action TEXT NOT NULL,
    status TEXT NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    metadata JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_audit_logs_entity ON portal.audit_logs (entity_type, entity_id);
`
