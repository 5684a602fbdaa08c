package model

import "time"

const DefaultTimeout = 500 * time.Millisecond
const DefaultShutdownTimeout = 10 * time.Second

const (
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 1000
)

const Currency = "USD"

const HeaderContentType = "Content-Type"
const HeaderAuthorization = "Authorization"
const HeaderSignature = "Stripe-Signature"

type ContextKey string

const (
	KeyContextLogger     ContextKey = "logger"
	KeyContextAccountID  ContextKey = "account_id"
	KeyContextRemoteAddr ContextKey = "remote_addr"
)

const KeyLoggerError = "error"
