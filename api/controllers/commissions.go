package controllers

import (
	"net/http"

	"github.com/anuverse/teamops-backend/api/responses"
	"github.com/anuverse/teamops-backend/internal/commissions"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	"github.com/anuverse/teamops-backend/pkg/logger"
)

// CommissionList returns the caller's commission statement with totals.
func CommissionList(svc commissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "commissions service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.ListOwn(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
