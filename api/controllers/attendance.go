package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/anuverse/teamops-backend/api/responses"
	"github.com/anuverse/teamops-backend/internal/attendance"
	"github.com/anuverse/teamops-backend/pkg/config"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	"github.com/anuverse/teamops-backend/pkg/geocode"
	"github.com/anuverse/teamops-backend/pkg/logger"
)

// AttendanceCheckin records a check-in from a multipart form carrying the
// photo and, when the client has them, coordinates. The location lookup
// gets a bounded head start; the check-in never waits for it beyond that.
func AttendanceCheckin(svc attendance.Service, geo *geocode.Client, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attendance service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		maxBytes := int64(cfg.GCS.MaxUploadMB) << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		coords, supported, err := parseCheckinLocation(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var wf *attendance.Workflow
		if geo != nil {
			wf = attendance.NewWorkflow(svc, geo, uid)
		} else {
			wf = attendance.NewWorkflow(svc, nil, uid)
		}
		if err := wf.Open(r.Context(), coords, supported); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer wf.Close()

		file, header, err := r.FormFile("photo")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Photo required"))
			return
		}
		defer file.Close()

		wf.WaitLocation(r.Context(), cfg.Attendance.ResolveHeadStart)

		dto, err := wf.Submit(r.Context(), file, header.Header.Get("Content-Type"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"attendance":     dto,
			"close_delay_ms": attendance.SuccessCloseDelay.Milliseconds(),
		})
	}
}

func parseCheckinLocation(r *http.Request) (*attendance.Coordinates, bool, error) {
	supported := true
	if raw := strings.TrimSpace(r.FormValue("location_supported")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location_supported value")
		}
		supported = value
	}

	latRaw := strings.TrimSpace(r.FormValue("lat"))
	lngRaw := strings.TrimSpace(r.FormValue("lng"))
	if latRaw == "" || lngRaw == "" {
		return nil, supported, nil
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lat value")
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lng value")
	}
	return &attendance.Coordinates{Lat: lat, Lng: lng}, supported, nil
}

// AttendanceList returns the caller's own check-in history, newest first.
func AttendanceList(svc attendance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attendance service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := attendance.ListParams{UserID: uid}
		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			params.Limit = value
		}
		if cursor := strings.TrimSpace(r.URL.Query().Get("cursor")); cursor != "" {
			params.Cursor = cursor
		}

		resp, err := svc.ListOwn(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
