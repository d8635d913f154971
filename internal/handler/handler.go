// Package handler exposes the gateway's HTTP API. Routes compose the domain
// services, translate their errors into status codes, and keep the response
// shapes the single-page app expects.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/OpenLiberty/sample-acmegifts/internal/auth"
	"github.com/OpenLiberty/sample-acmegifts/internal/calculator"
	"github.com/OpenLiberty/sample-acmegifts/internal/client"
	"github.com/OpenLiberty/sample-acmegifts/internal/membership"
	"github.com/OpenLiberty/sample-acmegifts/internal/models"
	"github.com/OpenLiberty/sample-acmegifts/internal/service"
)

// Directory is the slice of the user directory the routes need.
type Directory interface {
	User(ctx context.Context, sess auth.Session, id string) (models.User, error)
	All(ctx context.Context, sess auth.Session) ([]models.User, error)
}

// Handler carries the services the routes dispatch to.
type Handler struct {
	sessions  *service.SessionService
	groups    *service.GroupService
	occasions *service.OccasionService
	directory Directory
}

// New creates a Handler over the given services.
func New(sessions *service.SessionService, groups *service.GroupService, occasions *service.OccasionService, directory Directory) *Handler {
	return &Handler{
		sessions:  sessions,
		groups:    groups,
		occasions: occasions,
		directory: directory,
	}
}

// Routes builds the /api router. Everything but login and signup sits behind
// the session middleware.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.login)
	r.Post("/signup", h.signup)

	r.Group(func(r chi.Router) {
		r.Use(RequireSession)

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", h.listGroups)
			r.Post("/", h.createGroup)
			r.Get("/{groupID}", h.groupSummary)
			r.Put("/{groupID}/name", h.renameGroup)
			r.Delete("/{groupID}", h.deleteGroup)
			r.Post("/{groupID}/members", h.addMember)
			r.Delete("/{groupID}/members/{userID}", h.removeMember)
		})

		r.Get("/contributions", h.contributionReport)

		r.Route("/occasions", func(r chi.Router) {
			r.Get("/", h.listOccasions)
			r.Post("/", h.createOccasion)
			r.Get("/{occasionID}", h.getOccasion)
			r.Put("/{occasionID}", h.updateOccasion)
			r.Put("/{occasionID}/contribution", h.setContribution)
			r.Delete("/{occasionID}", h.deleteOccasion)
			r.Post("/{occasionID}/run", h.runOccasion)
		})

		r.Get("/users", h.listUsers)
		r.Get("/users/{userID}", h.getUser)
		r.Put("/users/{userID}", h.updateProfile)
		r.Delete("/users/{userID}", h.deleteAccount)
	})

	return r
}

// errorResponse is the body of every error reply.
type errorResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	if body == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError maps domain errors onto status codes. Unrecognized errors
// become a 502 when a backend reported them and a 500 otherwise.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrSessionInvalid):
		status = http.StatusUnauthorized
		err = auth.ErrSessionInvalid
	case errors.Is(err, client.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrTwitterOnly):
		status = http.StatusUnauthorized
	case errors.Is(err, calculator.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, client.ErrGroupIDNotValid):
		status = http.StatusBadRequest
	case errors.Is(err, client.ErrGroupIDNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateName), errors.Is(err, membership.ErrAlreadyMember):
		status = http.StatusConflict
	case errors.Is(err, client.ErrCannotAuthenticate):
		status = http.StatusBadGateway
	default:
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			status = http.StatusBadGateway
		}
	}

	respondJSON(w, status, errorResponse{Message: err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "The request body could not be parsed."})
		return false
	}
	return true
}

// sessionResponse is the body of successful login and signup replies. The
// fresh token rides in the Authorization response header.
type sessionResponse struct {
	ID       string      `json:"id"`
	UserName string      `json:"userName"`
	User     models.User `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var creds client.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}

	sess, user, err := h.sessions.Login(r.Context(), creds)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Authorization", sess.Token)
	respondJSON(w, http.StatusOK, sessionResponse{ID: sess.UserID, UserName: sess.UserName, User: user})
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if !decodeJSON(w, r, &user) {
		return
	}

	sess, created, err := h.sessions.Signup(r.Context(), user)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Authorization", sess.Token)
	respondJSON(w, http.StatusCreated, sessionResponse{ID: sess.UserID, UserName: sess.UserName, User: created})
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	userID := userIDParam(r)
	groups, err := h.groups.List(r.Context(), session(r, userID), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.Groups{Groups: groups})
}

// createGroupRequest names the group and the creating user.
type createGroupRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.groups.Create(r.Context(), session(r, req.UserID), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, group)
}

func (h *Handler) groupSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.groups.Summary(r.Context(), session(r, userIDParam(r)), chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// renameGroupRequest carries the new group name.
type renameGroupRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

func (h *Handler) renameGroup(w http.ResponseWriter, r *http.Request) {
	var req renameGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.groups.Rename(r.Context(), session(r, req.UserID), chi.URLParam(r, "groupID"), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.groups.Delete(r.Context(), session(r, userIDParam(r)), chi.URLParam(r, "groupID")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// addMemberRequest names the user joining the group.
type addMemberRequest struct {
	UserID string `json:"userId"`
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.groups.AddMember(r.Context(), session(r, req.UserID), chi.URLParam(r, "groupID"), req.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	group, err := h.groups.RemoveMember(r.Context(), session(r, userID), chi.URLParam(r, "groupID"), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (h *Handler) contributionReport(w http.ResponseWriter, r *http.Request) {
	userID := userIDParam(r)
	report, err := h.groups.ContributionReport(r.Context(), session(r, userID), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *Handler) listOccasions(w http.ResponseWriter, r *http.Request) {
	occasions, err := h.occasions.ListForGroup(r.Context(), session(r, userIDParam(r)), r.URL.Query().Get("groupId"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, occasions)
}

// createOccasionRequest pairs the occasion with the organizer's opening
// contribution.
type createOccasionRequest struct {
	models.Occasion
	ContributionAmount float64 `json:"contributionAmount"`
}

func (h *Handler) createOccasion(w http.ResponseWriter, r *http.Request) {
	var req createOccasionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	occasion, err := h.occasions.Create(r.Context(), session(r, req.OrganizerID), req.Occasion, req.ContributionAmount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, occasion)
}

func (h *Handler) getOccasion(w http.ResponseWriter, r *http.Request) {
	occasion, err := h.occasions.Get(r.Context(), session(r, userIDParam(r)), chi.URLParam(r, "occasionID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, occasion)
}

func (h *Handler) updateOccasion(w http.ResponseWriter, r *http.Request) {
	var occasion models.Occasion
	if !decodeJSON(w, r, &occasion) {
		return
	}
	occasion.ID = chi.URLParam(r, "occasionID")

	if err := h.occasions.Update(r.Context(), session(r, occasion.OrganizerID), occasion); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, occasion)
}

// setContributionRequest carries one member's pledge for an occasion.
type setContributionRequest struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
}

func (h *Handler) setContribution(w http.ResponseWriter, r *http.Request) {
	var req setContributionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	occasion, err := h.occasions.SetContribution(r.Context(), session(r, req.UserID), chi.URLParam(r, "occasionID"), req.UserID, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, occasion)
}

func (h *Handler) deleteOccasion(w http.ResponseWriter, r *http.Request) {
	if err := h.occasions.Delete(r.Context(), session(r, userIDParam(r)), chi.URLParam(r, "occasionID")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) runOccasion(w http.ResponseWriter, r *http.Request) {
	sess := session(r, userIDParam(r))

	occasion, err := h.occasions.Get(r.Context(), sess, chi.URLParam(r, "occasionID"))
	if err != nil {
		respondError(w, err)
		return
	}

	success, err := h.occasions.Run(r.Context(), sess, occasion)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.RunResult{Success: success})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.directory.All(r.Context(), session(r, userIDParam(r)))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.Users{Users: users})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	user, err := h.directory.User(r.Context(), session(r, userIDParam(r)), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if !decodeJSON(w, r, &user) {
		return
	}
	user.ID = chi.URLParam(r, "userID")

	updated, err := h.sessions.UpdateProfile(r.Context(), session(r, user.ID), user)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := h.sessions.DeleteAccount(r.Context(), session(r, userID), userID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
