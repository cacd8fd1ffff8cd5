// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package notify

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/pollenlabs/pollen/internal/platform/request"
	"github.com/pollenlabs/pollen/internal/platform/respond"
	"github.com/pollenlabs/pollen/internal/platform/validate"
)

// Handler exposes the admin-only transport check endpoint.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/test", handler.sendTestEmail)
}

type testEmailRequest struct {
	Recipient string `json:"recipient"`
}

func (handler *Handler) sendTestEmail(writer http.ResponseWriter, request *http.Request) {
	var body testEmailRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.
		Required("recipient", body.Recipient).
		Email("recipient", body.Recipient).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.SendTestEmail(request.Context(), body.Recipient); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"status": "sent", "recipient": body.Recipient})
}
