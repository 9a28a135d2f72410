package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"kiosko/app/kiosko/model"
	"kiosko/app/kiosko/service"
	"kiosko/common/log"
	"kiosko/common/metrics"
	"kiosko/common/realtime"
	"kiosko/common/response"
)

func init() {
	routers = append(routers, projectRouter())
}

func projectRouter() Router {
	return func(g *gin.RouterGroup, api *KioskoAPI) {
		g.GET("/api/projects", api.GetProjects())
		g.GET("/api/projects/:id", api.GetProject())
		g.POST("/api/projects", api.CreateProject())
		g.PUT("/api/projects/:id", api.UpdateProject())
		g.DELETE("/api/projects/:id", api.DeleteProject())
	}
}

func (api *KioskoAPI) GetProjects() GinHandler {
	return func(c *gin.Context) {
		projects, err := api.KioskoService.GetProjects(c.Request.Context())
		if err != nil {
			response.Error(c, 500, err.Error())
			return
		}
		response.OK(c, 200, projects)
	}
}

func (api *KioskoAPI) GetProject() GinHandler {
	return func(c *gin.Context) {
		oid, err := ParamObjectID(c, "id")
		if err != nil {
			response.Error(c, 400, err.Error())
			return
		}
		project, err := api.KioskoService.GetProject(c.Request.Context(), oid)
		if err == nil {
			response.OK(c, 200, project)
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			c.Status(404)
			return
		}
		response.Error(c, 500, err.Error())
	}
}

func (api *KioskoAPI) CreateProject() GinHandler {
	return func(c *gin.Context) {
		var project model.Project
		if err := c.ShouldBindJSON(&project); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err.Error())
			return
		}
		resp, err := api.KioskoService.CreateProject(c.Request.Context(), project)
		if err != nil {
			response.Error(c, 500, err.Error())
			return
		}
		response.OK(c, 200, resp)
	}
}

// UpdateProject is the full-replace write every evaluation submission
// (live or replayed from an offline queue) funnels through.
func (api *KioskoAPI) UpdateProject() GinHandler {
	return func(c *gin.Context) {
		oid, err := ParamObjectID(c, "id")
		if err != nil {
			response.Error(c, 400, err.Error())
			return
		}
		var project model.Project
		if err := c.ShouldBindJSON(&project); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err.Error())
			return
		}
		if project.ID != oid {
			response.Error(c, 400, "ID mismatch")
			return
		}
		if err := api.KioskoService.UpdateProject(c.Request.Context(), project); err != nil {
			response.Error(c, 500, err.Error())
			return
		}
		metrics.ProjectReplaces.Inc()
		api.broadcastRanking()
		response.NoContent(c)
	}
}

func (api *KioskoAPI) DeleteProject() GinHandler {
	return func(c *gin.Context) {
		oid, err := ParamObjectID(c, "id")
		if err != nil {
			response.Error(c, 400, err.Error())
			return
		}
		resp, err := api.KioskoService.DeleteProject(c.Request.Context(), oid)
		if err != nil {
			response.Error(c, 500, err.Error())
			return
		}
		api.broadcastRanking()
		response.OK(c, 200, resp)
	}
}

// broadcastRanking pushes a fresh leaderboard to websocket viewers,
// detached from the request lifetime.
func (api *KioskoAPI) broadcastRanking() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		ranked, err := api.KioskoService.Ranking(ctx)
		if err != nil {
			log.Logger().Errorf("ranking broadcast: %s", err.Error())
			return
		}
		realtime.Broadcast(ranked)
	}()
}
