package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edumentor/edumentor/core/mentorship"
	"github.com/edumentor/edumentor/core/user"
)

type mentorshipApi struct {
	svc      mentorship.Service
	validate *validator.Validate
}

func registerMentorshipAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc mentorship.Service, validate *validator.Validate) {
	api := mentorshipApi{svc: svc, validate: validate}

	sg := g.Group("/mentorship/sessions", authed...)
	sg.POST("", api.book, requireRole(user.RoleStudent))
	sg.GET("", api.query)
	sg.PATCH("/:id", api.update)
}

func (api *mentorshipApi) book(ctx echo.Context) error {
	var data mentorship.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Book(ctx.Request().Context(), contextUser(ctx), data)
	if err != nil {
		return errors.Wrap(err, "booking session")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *mentorshipApi) query(ctx echo.Context) error {
	sessions, err := api.svc.QueryFor(ctx.Request().Context(), contextUser(ctx))
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *mentorshipApi) update(ctx echo.Context) error {
	var data mentorship.UpdateSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSession")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Update(ctx.Request().Context(), contextUser(ctx), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating session")
	}
	return ctx.JSON(http.StatusOK, s)
}
