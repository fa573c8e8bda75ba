package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/PortNumber53/agency-site/backend/internal/models"
)

// ContactStore persists contact form messages.
type ContactStore interface {
	CreateContact(ctx context.Context, msg *models.ContactMessage, notify *models.Job) error
	ListContacts(ctx context.Context, limit int) ([]models.ContactMessage, error)
}

// ContactRequest is the body of POST /api/contact.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=320"`
	Phone   string `json:"phone" validate:"max=50"`
	Message string `json:"message" validate:"required,max=10000"`
	Budget  string `json:"budget" validate:"max=100"`
}

func (r *ContactRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Message = strings.TrimSpace(r.Message)
	r.Budget = strings.TrimSpace(r.Budget)
}

var validate = validator.New()

const errContactRequired = "Name, email, and message are required"

// CreateContact stores a contact form message and queues the agency
// notification for it.
func CreateContact(store ContactStore, logger *zap.Logger) http.HandlerFunc {
	logger = nopIfNil(logger)
	return func(w http.ResponseWriter, r *http.Request) {
		var req ContactRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		req.normalize()

		if req.Name == "" || req.Email == "" || req.Message == "" {
			writeError(w, http.StatusBadRequest, errContactRequired)
			return
		}
		if err := validate.Struct(req); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				writeError(w, http.StatusUnprocessableEntity, contactFieldMessage(verrs[0]))
				return
			}
			writeError(w, http.StatusUnprocessableEntity, "invalid contact message")
			return
		}

		msg := &models.ContactMessage{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Message: req.Message,
			Budget:  req.Budget,
		}
		job, err := models.NewNotificationJob(models.JobTypeContactNotification, msg)
		if err != nil {
			logger.Error("contact: build notification job", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save message")
			return
		}
		if err := store.CreateContact(r.Context(), msg, job); err != nil {
			logger.Error("contact: save message", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save message")
			return
		}

		logger.Info("contact: message received", zap.String("contact_id", msg.ID))
		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"id":      msg.ID,
			"message": "Message received successfully.",
		})
	}
}

func contactFieldMessage(fe validator.FieldError) string {
	switch {
	case fe.Field() == "Email" && fe.Tag() == "email":
		return "Invalid email address"
	case fe.Tag() == "max":
		return strings.ToLower(fe.Field()) + " is too long"
	}
	return "invalid " + strings.ToLower(fe.Field())
}

// ListContacts returns recent contact messages, newest first.
func ListContacts(store ContactStore, logger *zap.Logger) http.HandlerFunc {
	logger = nopIfNil(logger)
	return func(w http.ResponseWriter, r *http.Request) {
		contacts, err := store.ListContacts(r.Context(), queryLimit(r, 100, 1000))
		if err != nil {
			logger.Error("contact: list messages", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to retrieve contacts")
			return
		}
		if contacts == nil {
			contacts = []models.ContactMessage{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"contacts": contacts})
	}
}
