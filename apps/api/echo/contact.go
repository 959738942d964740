package echoapi

import (
	"fmt"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"

	"github.com/kisanhq/kisan/core"
)

type contactApi struct {
	emailSvc core.EmailService
}

func registerContactAPI(g *echo.Group, emailSvc core.EmailService) {
	api := contactApi{emailSvc: emailSvc}
	g.POST("/contact", api.contact)
}

type contactForm struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

func (f *contactForm) Validate() error {
	f.Name = core.CleanString(f.Name)
	f.Email = core.CleanString(f.Email, true /* lower */)
	f.Message = core.CleanString(f.Message)
	return core.Validate.Struct(f)
}

func (api contactApi) contact(ctx echo.Context) error {
	data := new(contactForm)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	api.emailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: core.Conf.GetString("contactEmail")}},
		Subject: "Contact form: " + data.Name,
		BodyStr: fmt.Sprintf("From: %s <%s>\n\n%s\n", data.Name, data.Email, data.Message),
	})
	return ctx.NoContent(http.StatusAccepted)
}
