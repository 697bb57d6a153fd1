package controllers

import (
	"net/http"

	"github.com/gearboxapp/gearbox-backend/api/middleware"
	"github.com/gearboxapp/gearbox-backend/api/responses"
	"github.com/gearboxapp/gearbox-backend/api/validators"
	"github.com/gearboxapp/gearbox-backend/internal/comments"
	"github.com/gearboxapp/gearbox-backend/pkg/logger"
)

type createCommentRequest struct {
	PostID int64  `json:"post_id" validate:"required"`
	Body   string `json:"comment" validate:"required"`
}

// CreateComment adds a comment to the post named in the body.
func CreateComment(svc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createCommentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		comment, err := svc.Create(r.Context(), actor, comments.CreateCommentInput{
			PostID: body.PostID,
			Body:   body.Body,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteDataStatus(w, http.StatusCreated, comments.ToDTO(comment))
	}
}

// ListComments returns the comments on the post named by post_id.
func ListComments(svc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := validators.QueryID(r, "post_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		p, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListByPost(r.Context(), postID, p)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteData(w, comments.ToDTOs(rows))
	}
}

// DeleteComment removes a comment the caller wrote.
func DeleteComment(svc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		if err := svc.Delete(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "comment deleted", nil)
	}
}
