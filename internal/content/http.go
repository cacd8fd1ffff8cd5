// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package content

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/pollenlabs/pollen/internal/platform/request"
	"github.com/pollenlabs/pollen/internal/platform/respond"
	"github.com/pollenlabs/pollen/internal/platform/validate"
)

// Handler exposes the campaign and post surface. All routes require an
// authenticated user; the router applies that before dispatching here.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterCampaignRoutes(router chi.Router) {
	router.Get("/", handler.listCampaigns)
	router.Post("/", handler.createCampaign)
	router.Get("/{id}", handler.getCampaign)
	router.Patch("/{id}", handler.updateCampaign)
	router.Delete("/{id}", handler.deleteCampaign)
	router.Get("/{id}/posts", handler.listPosts)
	router.Post("/{id}/posts", handler.createPost)
}

func (handler *Handler) RegisterPostRoutes(router chi.Router) {
	router.Get("/{id}", handler.getPost)
	router.Patch("/{id}", handler.updatePost)
	router.Post("/{id}/published", handler.markPublished)
	router.Delete("/{id}", handler.deletePost)
}

// # Campaign Endpoints

type campaignRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

type campaignPatchRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Status      *CampaignStatus `json:"status"`
	StartsAt    *time.Time      `json:"starts_at"`
	EndsAt      *time.Time      `json:"ends_at"`
}

func (handler *Handler) listCampaigns(writer http.ResponseWriter, request *http.Request) {
	campaigns, err := handler.service.ListCampaigns(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, campaigns)
}

func (handler *Handler) createCampaign(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body campaignRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	campaign, err := handler.service.CreateCampaign(request.Context(), CreateCampaignInput{
		Name:        body.Name,
		Description: body.Description,
		StartsAt:    body.StartsAt,
		EndsAt:      body.EndsAt,
		CreatedBy:   userID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, campaign)
}

func (handler *Handler) getCampaign(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	if err := validator.UUID("id", id).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	campaign, err := handler.service.GetCampaign(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, campaign)
}

func (handler *Handler) updateCampaign(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	var body campaignPatchRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	campaign, err := handler.service.UpdateCampaign(request.Context(), id, UpdateCampaignInput{
		Name:        body.Name,
		Description: body.Description,
		Status:      body.Status,
		StartsAt:    body.StartsAt,
		EndsAt:      body.EndsAt,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, campaign)
}

func (handler *Handler) deleteCampaign(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	if err := handler.service.DeleteCampaign(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Post Endpoints

type postRequest struct {
	Platform    Platform   `json:"platform"`
	Body        string     `json:"body"`
	MediaURL    string     `json:"media_url"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

type postPatchRequest struct {
	Body        *string    `json:"body"`
	MediaURL    *string    `json:"media_url"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

type markPublishedRequest struct {
	ExternalID string `json:"external_id"`
}

func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	campaignID := requestutil.Param(request, "id")

	posts, err := handler.service.ListPosts(request.Context(), campaignID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, posts)
}

func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	campaignID := requestutil.Param(request, "id")

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body postRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.CreatePost(request.Context(), CreatePostInput{
		CampaignID:  campaignID,
		Platform:    body.Platform,
		Body:        body.Body,
		MediaURL:    body.MediaURL,
		ScheduledAt: body.ScheduledAt,
		CreatedBy:   userID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, post)
}

func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	post, err := handler.service.GetPost(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	var body postPatchRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.UpdatePost(request.Context(), id, UpdatePostInput{
		Body:        body.Body,
		MediaURL:    body.MediaURL,
		ScheduledAt: body.ScheduledAt,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

func (handler *Handler) markPublished(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	var body markPublishedRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.Required("external_id", body.ExternalID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.MarkPublished(request.Context(), id, body.ExternalID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	if err := handler.service.DeletePost(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
