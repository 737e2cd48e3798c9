package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

const notifyTimeout = 15 * time.Second

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	contacts  contactStore
	notifier  services.ContactNotifier
}

func newContactHandler(contacts contactStore, notifier services.ContactNotifier) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		contacts:  contacts,
		notifier:  notifier,
	}
}

type contactInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Subject *string `json:"subject"`
	Message *string `json:"message"`
}

type contactUpdate struct {
	IsRead *bool `json:"isRead"`
}

// @Summary List contact messages
// @Tags Contact
// @Security BearerAuth
// @Param unreadOnly query bool false "Only unread messages"
// @Router /api/contact [get]
func (h contactHandler) getContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := parsePage(r, database.DefaultPageLimit)
		unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unreadOnly"))

		messages, total, err := h.contacts.List(r.Context(), page, unreadOnly)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contact messages", err))
			return
		}

		h.responder.WriteJSON(w, pageEnvelope("Contacts retrieved successfully", "contacts", messages, page, total))
	}
}

// getContact returns one message and marks it read the first time it is opened.
// @Summary Get contact message
// @Tags Contact
// @Security BearerAuth
// @Param contactID path string true "Contact ID" format(uuid)
// @Router /api/contact/{contactID} [get]
func (h contactHandler) getContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contactID, err := pathID(r, "contactID", "contact")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		message, err := h.contacts.FindByID(r.Context(), contactID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contact message", err))
			return
		}

		if !message.Seen() {
			if err := h.contacts.SetRead(r.Context(), contactID, true); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("update", "contact message", err))
				return
			}
			message.IsRead, message.Read = true, true
		}

		h.responder.WriteJSON(w, envelope{
			"message": "Contact retrieved successfully",
			"contact": message,
		})
	}
}

// createContact stores a message from the public form and sends the owner a notification
// in the background.
// @Summary Submit contact message
// @Tags Contact
// @Router /api/contact [post]
func (h contactHandler) createContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in contactInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if blank(in.Name) || blank(in.Email) || blank(in.Message) {
			h.responder.WriteError(w, errs.NewMissingFieldsError("Name, email, and message are required"))
			return
		}

		var message models.ContactMessage
		patchString(&message.Name, in.Name)
		patchString(&message.Email, in.Email)
		patchString(&message.Message, in.Message)
		patchOptional(&message.Subject, in.Subject)

		if err := h.contacts.Add(r.Context(), &message); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "contact message", err))
			return
		}

		go h.notify(context.WithoutCancel(r.Context()), message)

		h.responder.WriteStatus(w, http.StatusCreated, envelope{
			"message": "Contact submitted successfully",
			"contact": message,
		})
	}
}

func (h contactHandler) notify(ctx context.Context, message models.ContactMessage) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	if err := h.notifier.NotifyContact(ctx, message); err != nil {
		h.logger.Warn().Err(err).Str("contactID", message.ID.String()).Msg("contact notification failed")
	}
}

// updateContact only changes the read flag.
// @Summary Update contact message
// @Tags Contact
// @Security BearerAuth
// @Param contactID path string true "Contact ID" format(uuid)
// @Router /api/contact/{contactID} [put]
func (h contactHandler) updateContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contactID, err := pathID(r, "contactID", "contact")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in contactUpdate
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if in.IsRead == nil {
			h.responder.WriteError(w, errs.NewMissingFieldsError("isRead is required"))
			return
		}

		if err := h.contacts.SetRead(r.Context(), contactID, *in.IsRead); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "contact message", err))
			return
		}

		message, err := h.contacts.FindByID(r.Context(), contactID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contact message", err))
			return
		}

		h.responder.WriteJSON(w, envelope{
			"message": "Contact updated successfully",
			"contact": message,
		})
	}
}

// @Summary Delete contact message
// @Tags Contact
// @Security BearerAuth
// @Param contactID path string true "Contact ID" format(uuid)
// @Router /api/contact/{contactID} [delete]
func (h contactHandler) deleteContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contactID, err := pathID(r, "contactID", "contact")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.contacts.Delete(r.Context(), contactID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "contact message", err))
			return
		}

		h.responder.WriteJSON(w, envelope{"message": "Contact deleted successfully"})
	}
}
