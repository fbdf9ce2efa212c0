package handler

import (
	"dispatchgo/backend/internal/feedhub"
	"dispatchgo/backend/internal/report"
)

// Handler carries the services the incident endpoints need.
type Handler struct {
	Intake *report.IntakeService
	Query  *report.QueryService
	Hub    *feedhub.Manager
}

func NewHandler(intake *report.IntakeService, query *report.QueryService, hub *feedhub.Manager) *Handler {
	return &Handler{Intake: intake, Query: query, Hub: hub}
}
