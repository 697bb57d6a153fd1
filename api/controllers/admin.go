package controllers

import (
	"net/http"
	"strings"

	"github.com/gearboxapp/gearbox-backend/api/middleware"
	"github.com/gearboxapp/gearbox-backend/api/responses"
	"github.com/gearboxapp/gearbox-backend/api/validators"
	"github.com/gearboxapp/gearbox-backend/internal/parts"
	"github.com/gearboxapp/gearbox-backend/internal/posts"
	"github.com/gearboxapp/gearbox-backend/internal/users"
	"github.com/gearboxapp/gearbox-backend/internal/vehicles"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/gearboxapp/gearbox-backend/pkg/logger"
)

func queryUsername(r *http.Request) (string, error) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "username query parameter is required")
	}
	return username, nil
}

// AdminListUsers returns every account including flags.
func AdminListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListAll(r.Context(), p)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]users.AccountDTO, 0, len(rows))
		for i := range rows {
			out = append(out, users.ToAccountDTO(&rows[i]))
		}
		responses.WriteData(w, out)
	}
}

// AdminDeleteUser removes any account by username.
func AdminDeleteUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, err := queryUsername(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor := middleware.ActorFromContext(r.Context())
		if err := svc.DeleteByUsername(r.Context(), actor, username); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "user deleted", nil)
	}
}

// AdminDeactivateUser blocks an account and revokes its sessions.
func AdminDeactivateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, err := queryUsername(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SetActiveByUsername(r.Context(), username, false); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "user deactivated", nil)
	}
}

// AdminActivateUser reinstates a blocked account.
func AdminActivateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, err := queryUsername(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SetActiveByUsername(r.Context(), username, true); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "user activated", nil)
	}
}

// AdminDeletePost removes any post regardless of ownership.
func AdminDeletePost(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.AdminDelete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "post deleted", nil)
	}
}

// AdminVerifyPart marks a catalog part as verified.
func AdminVerifyPart(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		part, err := svc.Verify(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "part verified", map[string]any{
			"part": parts.ToDTO(part),
		})
	}
}

// AdminCreateVehicle extends the vehicle catalog.
func AdminCreateVehicle(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body vehicles.CreateVehicleInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vehicle, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteDataStatus(w, http.StatusCreated, vehicles.ToDTO(vehicle))
	}
}
