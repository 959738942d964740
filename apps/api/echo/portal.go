package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kisanhq/kisan/core/session"
)

type portalPages struct {
	svc *session.Service
}

func registerPortalPages(app *echo.Echo, svc *session.Service) {
	pages := portalPages{svc: svc}

	app.GET("/", pages.home)
	app.GET("/index.html", pages.home)
	app.GET("/login", pages.login)
	app.GET("/signup", pages.signup)

	// protected views
	anyMember := roleGuardMiddleware(svc, session.RoleStudent, session.RoleTeacher, session.RoleAdmin)
	app.GET("/plot-registration", pages.plotRegistration, anyMember)
	app.GET("/admin-dashboard", pages.adminDashboard, roleGuardMiddleware(svc, session.RoleAdmin))
	app.GET("/teacher-dashboard", pages.teacherDashboard, roleGuardMiddleware(svc, session.RoleTeacher))
	app.GET("/student-dashboard", pages.studentDashboard, roleGuardMiddleware(svc, session.RoleStudent))
}

func (p portalPages) render(ctx echo.Context, title, body string) error {
	page := fmt.Sprintf(
		"<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s | %s</title></head>\n"+
			"<body><h1>%s</h1>%s</body></html>\n",
		title, p.svc.T("heroTitle"), title, body,
	)
	return ctx.HTML(http.StatusOK, page)
}

func (p portalPages) home(ctx echo.Context) error {
	body := fmt.Sprintf("<p>%s</p>", p.svc.T("heroSubtitle"))
	return p.render(ctx, p.svc.T("heroTitle"), body)
}

func (p portalPages) login(ctx echo.Context) error {
	body := fmt.Sprintf(
		"<form><label>%s</label><label>%s</label><button>%s</button></form><p>%s</p>",
		p.svc.T("emailLabel"), p.svc.T("passwordLabel"), p.svc.T("loginCta"), p.svc.T("loginHint"),
	)
	return p.render(ctx, p.svc.T("login"), body)
}

func (p portalPages) signup(ctx echo.Context) error {
	return p.render(ctx, p.svc.T("signup"), "")
}

func (p portalPages) plotRegistration(ctx echo.Context) error {
	return p.render(ctx, p.svc.T("plotRegistration"), "")
}

func (p portalPages) adminDashboard(ctx echo.Context) error {
	return p.render(ctx, p.svc.T("adminDashboard"), p.greeting())
}

func (p portalPages) teacherDashboard(ctx echo.Context) error {
	return p.render(ctx, p.svc.T("teacherDashboard"), p.greeting())
}

func (p portalPages) studentDashboard(ctx echo.Context) error {
	return p.render(ctx, p.svc.T("studentDashboard"), p.greeting())
}

func (p portalPages) greeting() string {
	usr, ok := p.svc.Current()
	if !ok {
		return ""
	}
	return fmt.Sprintf("<p>%s</p>", usr.Email)
}

// Dashboard data API. Everything served here is hard-coded demo content; no
// database or pipeline backs these numbers.

type dashboardApi struct {
	svc *session.Service
}

func registerDashboardAPI(g *echo.Group, svc *session.Service) {
	api := dashboardApi{svc: svc}

	dg := g.Group("/dashboards")
	dg.GET("/admin", api.admin, roleGuardMiddleware(svc, session.RoleAdmin))
	dg.GET("/teacher", api.teacher, roleGuardMiddleware(svc, session.RoleTeacher))
	dg.GET("/student", api.student, roleGuardMiddleware(svc, session.RoleStudent))
}

type (
	adminStats struct {
		TotalUsers           int `json:"total_users"`
		ActivePlots          int `json:"active_plots"`
		PendingVerifications int `json:"pending_verifications"`
		RecentSignups        int `json:"recent_signups"`
	}

	classInfo struct {
		Name        string `json:"name"`
		Students    int    `json:"students"`
		NextSession string `json:"next_session"`
	}

	courseProgress struct {
		Name     string `json:"name"`
		Progress int    `json:"progress"` // percent
	}
)

func (api dashboardApi) admin(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, adminStats{
		TotalUsers:           1248,
		ActivePlots:          371,
		PendingVerifications: 12,
		RecentSignups:        48,
	})
}

func (api dashboardApi) teacher(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"classes": []classInfo{
			{Name: "Soil Health 101", Students: 32, NextSession: "Mon 09:00"},
			{Name: "Drip Irrigation Basics", Students: 27, NextSession: "Wed 11:00"},
			{Name: "Organic Pest Control", Students: 19, NextSession: "Fri 14:00"},
		},
	})
}

func (api dashboardApi) student(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"courses": []courseProgress{
			{Name: "Soil Health 101", Progress: 80},
			{Name: "Crop Rotation", Progress: 45},
			{Name: "Monsoon Planning", Progress: 10},
		},
	})
}
