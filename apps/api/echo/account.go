package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kisanhq/kisan/core/user"
)

type accountApi struct {
	svc *user.Service
}

func registerAccountAPI(g *echo.Group, svc *user.Service) {
	api := accountApi{svc: svc}
	g.POST("/signup", api.signup)
}

func (api accountApi) signup(ctx echo.Context) error {
	data := new(user.NewAccount)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	acct, err := api.svc.Signup(*data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, acct)
}
