package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kisanhq/kisan/core/session"
)

type authApi struct {
	svc *session.Service
}

func registerAuthAPI(g *echo.Group, svc *session.Service) {
	api := authApi{svc: svc}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/refresh", api.refresh)
	ag.POST("/logout", api.logout)
	ag.GET("/session", api.currentSession)

	g.PUT("/locale", api.setLocale)
}

func (api authApi) login(ctx echo.Context) error {
	data := new(session.LoginCredentials)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	tokens, err := api.svc.Login(*data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tokens)
}

type refreshResponse struct {
	Access *string `json:"access"`
}

// refresh rotates the access token. While anonymous the response carries a
// null token rather than an error; callers must check.
func (api authApi) refresh(ctx echo.Context) error {
	token, err := api.svc.Refresh()
	if err != nil {
		return err
	}
	resp := refreshResponse{}
	if token != "" {
		resp.Access = &token
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api authApi) logout(ctx echo.Context) error {
	if err := api.svc.Logout(); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api authApi) currentSession(ctx echo.Context) error {
	resp := echo.Map{"language": api.svc.Language()}
	if usr, ok := api.svc.Current(); ok {
		resp["user"] = usr
	} else {
		resp["user"] = nil
	}
	return ctx.JSON(http.StatusOK, resp)
}

type localeRequest struct {
	Language string `json:"language"`
}

func (api authApi) setLocale(ctx echo.Context) error {
	data := new(localeRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := api.svc.SetLocale(data.Language); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
