package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/progress"
)

type progressApi struct {
	svc      progress.Service
	validate *validator.Validate
}

func registerProgressAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc progress.Service, validate *validator.Validate) {
	api := progressApi{svc: svc, validate: validate}

	pg := g.Group("/progress", authed...)
	pg.GET("", api.query)
	pg.POST("/:course_id", api.update)
}

// update accepts its fields as query params (`?completion_percentage=25.5`) or as a JSON body;
// query params win.
func (api *progressApi) update(ctx echo.Context) error {
	var data progress.UpdateProgress
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProgress")
	}
	if val := ctx.QueryParam("completion_percentage"); val != "" {
		pct, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return core.NewFieldError("completion_percentage", errors.New("must be a number"))
		}
		data.CompletionPercentage = &pct
	}
	if val := ctx.QueryParam("completed_lesson"); val != "" {
		data.CompletedLesson = val
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.svc.Update(ctx.Request().Context(), contextUser(ctx), ctx.Param("course_id"), data); err != nil {
		return errors.Wrap(err, "updating progress")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Progress updated successfully"})
}

func (api *progressApi) query(ctx echo.Context) error {
	records, err := api.svc.QueryFor(ctx.Request().Context(), contextUser(ctx))
	if err != nil {
		return errors.Wrap(err, "querying progress")
	}
	return ctx.JSON(http.StatusOK, records)
}
