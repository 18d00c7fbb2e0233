// Package api assembles the HTTP surface: it binds routes to request
// constructors, applies the pre-dispatch auth checks, and translates
// dispatched envelopes into wire responses. Bindings are validated
// against the mux before the router is handed to the server.
package api

import (
	"fmt"
	"log"
	"net/http"

	"edubackend/internal/app"
	"edubackend/internal/auth"
	"edubackend/internal/config"
	"edubackend/internal/dispatch"
	"edubackend/internal/domain"
	"edubackend/internal/http/middleware"
	"edubackend/internal/http/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// binder builds route handlers over the mux and records every request
// type it binds. Missing registrations are collected so startup can
// report them all at once instead of failing at request time.
type binder struct {
	mux     *dispatch.Mux
	missing []string
}

// bindTo returns the gin handler for one route: construct the typed
// request, dispatch it, write the envelope. A build error means the
// input was malformed and no request object is ever constructed.
func bindTo[Q dispatch.Request](b *binder, build func(*gin.Context) (Q, error)) gin.HandlerFunc {
	var zero Q
	if !b.mux.Registered(zero.RequestName()) {
		b.missing = append(b.missing, zero.RequestName())
	}
	return func(c *gin.Context) {
		req, err := build(c)
		if err != nil {
			web.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		res, err := b.mux.Dispatch(c.Request.Context(), middleware.ActorFrom(c), req)
		if err != nil {
			// Unhandled fault: log it here at the boundary, give the
			// caller nothing but a generic 500.
			log.Printf("[FAULT] request_id=%s op=%s err=%v", middleware.GetRequestID(c), req.RequestName(), err)
			web.Fail(c, http.StatusInternalServerError, "internal server error")
			return
		}
		web.Result(c, res)
	}
}

func idParam(c *gin.Context) (domain.ID, error) {
	return domain.ParseID(c.Param("id"))
}

func pageQuery(c *gin.Context) (dispatch.PageRequest, error) {
	var p dispatch.PageRequest
	if err := c.ShouldBindQuery(&p); err != nil {
		return p, fmt.Errorf("invalid paging parameters")
	}
	return p.Normalized(), nil
}

func bindJSON[T any](c *gin.Context, dst *T) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("invalid request body")
	}
	return nil
}

// NewRouter wires every route. It returns an error instead of an engine
// when any bound request type lacks a handler, so main refuses to serve
// a half-configured table.
func NewRouter(env config.Env, mux *dispatch.Mux, resolver auth.Resolver) (*gin.Engine, error) {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		corsMiddleware(env),
		middleware.ResolveActor(resolver),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		web.Fail(c, http.StatusNotFound, "route not found")
	})

	b := &binder{mux: mux}

	r.GET("/Health", func(c *gin.Context) {
		c.JSON(http.StatusOK, web.Envelope{Success: true, Message: "ok"})
	})

	authGroup := r.Group("/Auth")
	{
		authGroup.POST("/Login", bindTo(b, func(c *gin.Context) (app.LoginRequest, error) {
			var req app.LoginRequest
			return req, bindJSON(c, &req)
		}))
		authGroup.POST("/Register", bindTo(b, func(c *gin.Context) (app.RegisterRequest, error) {
			var req app.RegisterRequest
			return req, bindJSON(c, &req)
		}))
	}

	admin := r.Group("/Admin", middleware.RequireRoles(domain.RoleAdmin))
	{
		mountAnnouncementAdmin(b, admin.Group("/Announcements"))
		mountBadgeAdmin(b, admin.Group("/Badges"))
		mountUserAdmin(b, admin.Group("/Users"))
	}

	teacher := r.Group("/Teacher", middleware.RequireRoles(domain.RoleTeacher, domain.RoleAdmin))
	{
		mountMissions(b, teacher.Group("/Missions"))
		mountCPD(b, teacher.Group("/CpdRecords"))
	}

	student := r.Group("/Student", middleware.RequireAuth())
	{
		student.GET("/Announcements", bindTo(b, func(c *gin.Context) (app.ListAnnouncementsRequest, error) {
			page, err := pageQuery(c)
			return app.ListAnnouncementsRequest{PageRequest: page, PublishedOnly: true}, err
		}))
		student.GET("/Missions", bindTo(b, func(c *gin.Context) (app.ListMissionsRequest, error) {
			page, err := pageQuery(c)
			return app.ListMissionsRequest{PageRequest: page, ActiveOnly: true}, err
		}))
		student.POST("/Missions/:id/Complete", bindTo(b, func(c *gin.Context) (app.CompleteMissionRequest, error) {
			id, err := idParam(c)
			return app.CompleteMissionRequest{MissionID: id}, err
		}))
		student.GET("/Badges", bindTo(b, func(c *gin.Context) (app.ListEarnedBadgesRequest, error) {
			return app.ListEarnedBadgesRequest{}, nil
		}))
	}

	if len(b.missing) > 0 {
		return nil, fmt.Errorf("routes bound to unregistered request types: %v", b.missing)
	}
	return r, nil
}

func mountAnnouncementAdmin(b *binder, g *gin.RouterGroup) {
	g.GET("", bindTo(b, func(c *gin.Context) (app.ListAnnouncementsRequest, error) {
		page, err := pageQuery(c)
		return app.ListAnnouncementsRequest{PageRequest: page}, err
	}))
	g.GET("/:id", bindTo(b, func(c *gin.Context) (app.GetAnnouncementRequest, error) {
		id, err := idParam(c)
		return app.GetAnnouncementRequest{ID: id}, err
	}))
	g.POST("", bindTo(b, func(c *gin.Context) (app.CreateAnnouncementRequest, error) {
		var req app.CreateAnnouncementRequest
		return req, bindJSON(c, &req)
	}))
	g.PUT("/:id", bindTo(b, func(c *gin.Context) (app.UpdateAnnouncementRequest, error) {
		id, err := idParam(c)
		if err != nil {
			return app.UpdateAnnouncementRequest{}, err
		}
		var req app.UpdateAnnouncementRequest
		if err := bindJSON(c, &req); err != nil {
			return req, err
		}
		req.ID = id
		return req, nil
	}))
	g.DELETE("/:id", bindTo(b, func(c *gin.Context) (app.DeleteAnnouncementRequest, error) {
		id, err := idParam(c)
		return app.DeleteAnnouncementRequest{ID: id}, err
	}))
}

func mountBadgeAdmin(b *binder, g *gin.RouterGroup) {
	g.GET("", bindTo(b, func(c *gin.Context) (app.ListBadgesRequest, error) {
		page, err := pageQuery(c)
		return app.ListBadgesRequest{PageRequest: page}, err
	}))
	g.POST("", bindTo(b, func(c *gin.Context) (app.CreateBadgeRequest, error) {
		var req app.CreateBadgeRequest
		return req, bindJSON(c, &req)
	}))
	g.PUT("/:id", bindTo(b, func(c *gin.Context) (app.UpdateBadgeRequest, error) {
		id, err := idParam(c)
		if err != nil {
			return app.UpdateBadgeRequest{}, err
		}
		var req app.UpdateBadgeRequest
		if err := bindJSON(c, &req); err != nil {
			return req, err
		}
		req.ID = id
		return req, nil
	}))
	g.DELETE("/:id", bindTo(b, func(c *gin.Context) (app.DeleteBadgeRequest, error) {
		id, err := idParam(c)
		return app.DeleteBadgeRequest{ID: id}, err
	}))
}

func mountUserAdmin(b *binder, g *gin.RouterGroup) {
	g.GET("", bindTo(b, func(c *gin.Context) (app.ListUsersRequest, error) {
		page, err := pageQuery(c)
		return app.ListUsersRequest{PageRequest: page}, err
	}))
	g.PUT("/:id/Role", bindTo(b, func(c *gin.Context) (app.UpdateUserRoleRequest, error) {
		id, err := idParam(c)
		if err != nil {
			return app.UpdateUserRoleRequest{}, err
		}
		var req app.UpdateUserRoleRequest
		if err := bindJSON(c, &req); err != nil {
			return req, err
		}
		req.UserID = id
		return req, nil
	}))
}

func mountMissions(b *binder, g *gin.RouterGroup) {
	g.GET("", bindTo(b, func(c *gin.Context) (app.ListMissionsRequest, error) {
		page, err := pageQuery(c)
		return app.ListMissionsRequest{PageRequest: page, OwnOnly: true}, err
	}))
	g.POST("", bindTo(b, func(c *gin.Context) (app.CreateMissionRequest, error) {
		var req app.CreateMissionRequest
		return req, bindJSON(c, &req)
	}))
	g.PUT("/:id", bindTo(b, func(c *gin.Context) (app.UpdateMissionRequest, error) {
		id, err := idParam(c)
		if err != nil {
			return app.UpdateMissionRequest{}, err
		}
		var req app.UpdateMissionRequest
		if err := bindJSON(c, &req); err != nil {
			return req, err
		}
		req.ID = id
		return req, nil
	}))
	g.DELETE("/:id", bindTo(b, func(c *gin.Context) (app.DeleteMissionRequest, error) {
		id, err := idParam(c)
		return app.DeleteMissionRequest{ID: id}, err
	}))
}

func mountCPD(b *binder, g *gin.RouterGroup) {
	g.GET("", bindTo(b, func(c *gin.Context) (app.ListCPDRecordsRequest, error) {
		page, err := pageQuery(c)
		return app.ListCPDRecordsRequest{PageRequest: page}, err
	}))
	g.POST("", bindTo(b, func(c *gin.Context) (app.CreateCPDRecordRequest, error) {
		var req app.CreateCPDRecordRequest
		return req, bindJSON(c, &req)
	}))
	g.GET("/:id/Certificate", certificateRoute(b))
}

// certificateRoute dispatches like bindTo but streams the PDF payload
// instead of JSON-encoding it.
func certificateRoute(b *binder) gin.HandlerFunc {
	var zero app.GetCPDCertificateRequest
	if !b.mux.Registered(zero.RequestName()) {
		b.missing = append(b.missing, zero.RequestName())
	}
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			web.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		res, err := b.mux.Dispatch(c.Request.Context(), middleware.ActorFrom(c), app.GetCPDCertificateRequest{ID: id})
		if err != nil {
			log.Printf("[FAULT] request_id=%s op=cpd.certificate err=%v", middleware.GetRequestID(c), err)
			web.Fail(c, http.StatusInternalServerError, "internal server error")
			return
		}
		if !res.Succeeded() {
			web.Result(c, res)
			return
		}
		file, ok := res.Data().(app.CertificateFile)
		if !ok {
			web.Fail(c, http.StatusInternalServerError, "internal server error")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
		c.Data(http.StatusOK, "application/pdf", file.Content)
	}
}

func corsMiddleware(env config.Env) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = env.CORSOrigins
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	cfg.AllowCredentials = true
	return cors.New(cfg)
}
