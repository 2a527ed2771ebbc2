package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Acedia413/time-management-sub000/core/planner"
	"github.com/Acedia413/time-management-sub000/core/task"
	"github.com/Acedia413/time-management-sub000/core/user"
)

type plannerApi struct {
	svc     planner.Service
	userSvc user.Service
}

func registerPlannerAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc planner.Service, userSvc user.Service) {
	api := plannerApi{
		svc:     svc,
		userSvc: userSvc,
	}

	pg := g.Group("/planner", jwt)
	pg.GET("", api.plan)
	pg.GET("/records", api.queryRecords)
	pg.GET("/estimate-choices", api.queryEstimateChoices)
	pg.POST("/reorder", api.reorder)
	pg.PUT("/tasks/:id/priority", api.setPriority)
	pg.PUT("/tasks/:id/estimate", api.setEstimate)
}

// Handlers

// plan returns the caller's visible tasks grouped into deadline buckets.
func (api *plannerApi) plan(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	buckets, err := api.svc.Plan(ctx.Request().Context(), ctxUsr, time.Now())
	if err != nil {
		return errors.Wrap(err, "planning tasks")
	}

	resp := PlanResponse{
		Overdue:    planBucket(buckets, planner.BucketOverdue),
		ThisWeek:   planBucket(buckets, planner.BucketThisWeek),
		NextWeek:   planBucket(buckets, planner.BucketNextWeek),
		Later:      planBucket(buckets, planner.BucketLater),
		NoDeadline: planBucket(buckets, planner.BucketNoDeadline),
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *plannerApi) queryRecords(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	records, err := api.svc.QueryRecords(ctx.Request().Context(), ctxUsr)
	if err != nil {
		return errors.Wrap(err, "querying priority records")
	}
	if records == nil {
		records = []planner.PriorityRecord{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *plannerApi) queryEstimateChoices(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, planner.EstimateChoices)
}

func (api *plannerApi) setPriority(ctx echo.Context) error {
	var data planner.SetPriority
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetPriority")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	rec, err := api.svc.SetPriority(ctx.Request().Context(), ctxUsr, ctx.Param("id"), data.Priority)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *plannerApi) setEstimate(ctx echo.Context) error {
	var data planner.SetEstimate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetEstimate")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	rec, err := api.svc.SetEstimate(ctx.Request().Context(), ctxUsr, ctx.Param("id"), data.EstimatedMinutes)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *plannerApi) reorder(ctx echo.Context) error {
	var data planner.Reorder
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Reorder")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err := api.svc.Reorder(ctx.Request().Context(), ctxUsr, data.TaskIDs); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// PlanResponse serializes the five deadline buckets with stable keys, empty
// buckets included.
type PlanResponse struct {
	Overdue    []task.Task `json:"overdue"`
	ThisWeek   []task.Task `json:"this_week"`
	NextWeek   []task.Task `json:"next_week"`
	Later      []task.Task `json:"later"`
	NoDeadline []task.Task `json:"no_deadline"`
}

func planBucket(buckets map[planner.Bucket][]task.Task, b planner.Bucket) []task.Task {
	if tasks := buckets[b]; tasks != nil {
		return tasks
	}
	return []task.Task{}
}
