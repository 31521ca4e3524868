package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edumentor/edumentor/core/chat"
)

type chatApi struct {
	svc      chat.Service
	validate *validator.Validate
}

func registerChatAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc chat.Service, validate *validator.Validate) {
	api := chatApi{svc: svc, validate: validate}

	cg := g.Group("/chat", authed...)
	cg.POST("/messages", api.send)
	cg.PUT("/messages/:id/read", api.markRead)
	cg.GET("/conversations/:user_id", api.conversation)
}

func (api *chatApi) send(ctx echo.Context) error {
	var data chat.NewMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	msg, err := api.svc.Send(ctx.Request().Context(), contextUser(ctx), data)
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	return ctx.JSON(http.StatusOK, msg)
}

func (api *chatApi) conversation(ctx echo.Context) error {
	messages, err := api.svc.Conversation(ctx.Request().Context(), contextUser(ctx), ctx.Param("user_id"))
	if err != nil {
		return errors.Wrap(err, "querying conversation")
	}
	return ctx.JSON(http.StatusOK, messages)
}

func (api *chatApi) markRead(ctx echo.Context) error {
	msg, err := api.svc.MarkRead(ctx.Request().Context(), contextUser(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "marking message read")
	}
	return ctx.JSON(http.StatusOK, msg)
}
