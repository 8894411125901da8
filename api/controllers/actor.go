package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/anuverse/teamops-backend/api/middleware"
	"github.com/anuverse/teamops-backend/pkg/enums"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
)

func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return id, nil
}

func actorRole(r *http.Request) (enums.AppRole, error) {
	raw := middleware.RoleFromContext(r.Context())
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "role context missing")
	}
	role, err := enums.ParseAppRole(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "unknown role")
	}
	return role, nil
}
