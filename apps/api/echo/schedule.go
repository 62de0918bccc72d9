package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/studysync/studysync/core/event"
	"github.com/studysync/studysync/core/schedule"
)

type scheduleApi struct {
	svc      *schedule.Service
	validate *validator.Validate
}

func registerScheduleAPI(g *echo.Group, svc *schedule.Service, validate *validator.Validate) {
	api := scheduleApi{svc: svc, validate: validate}

	ag := g.Group("/assignments")
	ag.GET("", api.queryAssignments)
	ag.GET("/:id/group", api.group)
	ag.GET("/:id/best-block", api.bestBlock)

	g.POST("/events/normalize", api.normalizeEvent)
	g.POST("/meetings/invite", api.invite)
}

// Handlers

func (api *scheduleApi) queryAssignments(ctx echo.Context) error {
	scope := schedule.Scope{CourseTag: ctx.QueryParam("course_tag")}
	assignments, err := api.svc.Assignments(ctx.Request().Context(), scope)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if assignments == nil {
		assignments = []schedule.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *scheduleApi) group(ctx echo.Context) error {
	group, err := api.svc.GroupFor(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == schedule.ErrAssignmentNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "resolving study group")
	}
	return ctx.JSON(http.StatusOK, group)
}

func (api *scheduleApi) bestBlock(ctx echo.Context) error {
	block, size, err := api.svc.BestBlockFor(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == schedule.ErrAssignmentNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding best block")
	}
	if size == 0 {
		return ctx.JSON(http.StatusOK, BestBlockResponse{})
	}
	return ctx.JSON(http.StatusOK, BestBlockResponse{Block: &block, GroupSize: size})
}

func (api *scheduleApi) normalizeEvent(ctx echo.Context) error {
	var data event.Raw
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Raw event")
	}

	res := api.svc.NormalizeEvent(data, time.Now().UTC())
	return ctx.JSON(http.StatusOK, res)
}

func (api *scheduleApi) invite(ctx echo.Context) error {
	var data schedule.Invitation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Invitation")
	}

	res, err := api.svc.SendInvite(ctx.Request().Context(), data, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "sending invite")
	}
	return ctx.JSON(http.StatusOK, res)
}

type BestBlockResponse struct {
	Block     *schedule.Window `json:"block"`
	GroupSize int              `json:"group_size"`
}
