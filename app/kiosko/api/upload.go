package api

import (
	"github.com/gin-gonic/gin"

	"kiosko/common/log"
	"kiosko/common/response"
)

func init() {
	routers = append(routers, uploadRouter())
}

func uploadRouter() Router {
	return func(g *gin.RouterGroup, api *KioskoAPI) {
		g.POST("/api/upload", api.Upload())
	}
}

func (api *KioskoAPI) Upload() GinHandler {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err.Error())
			return
		}
		url, err := api.KioskoService.UploadFile(c.Request.Context(), header)
		if err != nil {
			response.Error(c, 500, err.Error())
			return
		}
		response.OK(c, 200, gin.H{"url": url})
	}
}
