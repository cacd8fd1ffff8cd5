// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/pollenlabs/pollen/internal/platform/request"
	"github.com/pollenlabs/pollen/internal/platform/respond"
	"github.com/pollenlabs/pollen/internal/platform/validate"
)

// Handler exposes the admin settings surface. Route-level access control
// (admin role) is applied by the router, not here.
type Handler struct {
	resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listSettings)
	router.Get("/{key}", handler.getSetting)
	router.Put("/{key}", handler.putSetting)
	router.Delete("/{key}", handler.deleteSetting)
}

type putSettingRequest struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

func (handler *Handler) listSettings(writer http.ResponseWriter, request *http.Request) {
	items, err := handler.resolver.All(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, items)
}

func (handler *Handler) getSetting(writer http.ResponseWriter, request *http.Request) {
	key := requestutil.Param(request, "key")

	setting, err := handler.resolver.store.GetByKey(request.Context(), key)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, setting)
}

func (handler *Handler) putSetting(writer http.ResponseWriter, request *http.Request) {
	key := requestutil.Param(request, "key")

	var body putSettingRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.
		Required("key", key).
		MaxLen("key", key, 255).
		MaxLen("description", body.Description, 1024).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Values are stored as raw strings and cast at read time; the admin
	// surface never interprets them.
	setting, err := handler.resolver.Set(request.Context(), key, String(body.Value), body.Description)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, setting)
}

func (handler *Handler) deleteSetting(writer http.ResponseWriter, request *http.Request) {
	key := requestutil.Param(request, "key")

	if err := handler.resolver.Delete(request.Context(), key); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
