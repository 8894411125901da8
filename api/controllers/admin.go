package controllers

import (
	"net/http"

	"github.com/anuverse/teamops-backend/api/responses"
	"github.com/anuverse/teamops-backend/internal/admin"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	"github.com/anuverse/teamops-backend/pkg/logger"
)

// AdminOverview serves the roster, decorated attendance and aggregate
// counters in one response.
func AdminOverview(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		role, err := actorRole(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		overview, err := svc.LoadOverview(r.Context(), role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}
