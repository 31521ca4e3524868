package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/user"
	"github.com/edumentor/edumentor/services/realtime"
)

type announcementApi struct {
	registry *realtime.Registry
	validate *validator.Validate
}

func registerAnnouncementAPI(g *echo.Group, authed []echo.MiddlewareFunc, registry *realtime.Registry, validate *validator.Validate) {
	api := announcementApi{registry: registry, validate: validate}
	g.POST("/announcements", api.announce, with(authed, requireRole(user.RoleAdmin))...)
}

func (api *announcementApi) announce(ctx echo.Context) error {
	var data AnnouncementRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AnnouncementRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	delivered := api.registry.Broadcast(Announcement{
		Type:       "announcement",
		Message:    data.Message,
		SenderName: contextUser(ctx).FullName,
	})
	return ctx.JSON(http.StatusOK, AnnouncementResponse{Delivered: delivered})
}

type (
	AnnouncementRequest struct {
		Message string `json:"message" validate:"required,max=2000"`
	}

	// Announcement is the real-time frame broadcast to every live connection.
	Announcement struct {
		Type       string `json:"type"`
		Message    string `json:"message"`
		SenderName string `json:"sender_name"`
	}

	AnnouncementResponse struct {
		Delivered int `json:"delivered"`
	}
)

func (ar *AnnouncementRequest) Validate(validate *validator.Validate) error {
	ar.Message = core.CleanString(ar.Message)
	return validate.Struct(ar)
}
