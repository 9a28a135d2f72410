package api

import (
	"github.com/gin-gonic/gin"

	"kiosko/app/kiosko/model"
	"kiosko/common/log"
	"kiosko/common/response"
)

func init() {
	routers = append(routers, userRouter())
}

func userRouter() Router {
	return func(g *gin.RouterGroup, api *KioskoAPI) {
		g.GET("/api/users", api.GetUsers())
		g.PUT("/api/users/:id", api.UpdateUser())
		g.PATCH("/api/users/:id/image", api.UpdateUserProfileImage())
		g.PUT("/api/users/:id/verify", api.VerifyUser())
		g.DELETE("/api/users/:id", api.DeleteUser())
	}
}

func (api *KioskoAPI) GetUsers() GinHandler {
	return func(c *gin.Context) {
		users, _, err := api.KioskoService.GetUsers(c.Request.Context())
		if err != nil {
			response.Error(c, 500, err.Error())
			return
		}
		response.OK(c, 200, users)
	}
}

func (api *KioskoAPI) UpdateUser() GinHandler {
	return func(c *gin.Context) {
		oid, err := ParamObjectID(c, "id")
		if err != nil {
			response.Error(c, 400, err.Error())
			return
		}
		var user model.User
		if err := c.ShouldBindJSON(&user); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err.Error())
			return
		}
		if user.ID != oid {
			response.Error(c, 400, "ID mismatch")
			return
		}
		if err := api.KioskoService.UpdateUser(c.Request.Context(), user); err != nil {
			response.Error(c, 500, err.Error())
			return
		}
		response.NoContent(c)
	}
}

func (api *KioskoAPI) UpdateUserProfileImage() GinHandler {
	return func(c *gin.Context) {
		oid, err := ParamObjectID(c, "id")
		if err != nil {
			response.Error(c, 400, err.Error())
			return
		}
		var imageURL string
		if err := c.ShouldBindJSON(&imageURL); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err.Error())
			return
		}
		if err := api.KioskoService.UpdateUserProfileImage(c.Request.Context(), oid, imageURL); err != nil {
			response.Error(c, 500, err.Error())
			return
		}
		response.NoContent(c)
	}
}

func (api *KioskoAPI) VerifyUser() GinHandler {
	return func(c *gin.Context) {
		oid, err := ParamObjectID(c, "id")
		if err != nil {
			response.Error(c, 400, err.Error())
			return
		}
		if err := api.KioskoService.VerifyUser(c.Request.Context(), oid); err != nil {
			response.Error(c, 500, err.Error())
			return
		}
		response.NoContent(c)
	}
}

func (api *KioskoAPI) DeleteUser() GinHandler {
	return func(c *gin.Context) {
		oid, err := ParamObjectID(c, "id")
		if err != nil {
			response.Error(c, 400, err.Error())
			return
		}
		if err := api.KioskoService.DeleteUser(c.Request.Context(), oid); err != nil {
			response.Error(c, 500, err.Error())
			return
		}
		response.NoContent(c)
	}
}
