package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"teamjob-backend/internal/auth"
	"teamjob-backend/internal/schedule"
	"teamjob-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	views   *schedule.ViewBuilder
	tokens  *auth.TokenIssuer
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, views *schedule.ViewBuilder, tokens *auth.TokenIssuer, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		views:   views,
		tokens:  tokens,
		webpush: webpushOptions,
	}
}
