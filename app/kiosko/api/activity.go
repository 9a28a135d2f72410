package api

import (
	"github.com/gin-gonic/gin"

	"kiosko/app/kiosko/model"
	"kiosko/common/log"
	"kiosko/common/response"
)

func init() {
	routers = append(routers, activityRouter())
}

func activityRouter() Router {
	return func(g *gin.RouterGroup, api *KioskoAPI) {
		g.GET("/api/activities/:userId", api.GetActivities())
		g.POST("/api/activities", api.CreateActivity())
	}
}

func (api *KioskoAPI) GetActivities() GinHandler {
	return func(c *gin.Context) {
		activities, err := api.KioskoService.GetActivitiesByUser(c.Request.Context(), c.Param("userId"))
		if err != nil {
			response.Error(c, 500, err.Error())
			return
		}
		response.OK(c, 200, activities)
	}
}

func (api *KioskoAPI) CreateActivity() GinHandler {
	return func(c *gin.Context) {
		var activity model.Activity
		if err := c.ShouldBindJSON(&activity); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err.Error())
			return
		}
		resp, err := api.KioskoService.CreateActivity(c.Request.Context(), activity)
		if err != nil {
			response.Error(c, 500, err.Error())
			return
		}
		response.OK(c, 200, resp)
	}
}
