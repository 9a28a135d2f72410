package api

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"kiosko/app/kiosko/model"
	"kiosko/app/kiosko/service"
	"kiosko/common/log"
	"kiosko/common/response"
)

func init() {
	routers = append(routers, authRouter())
}

func authRouter() Router {
	return func(g *gin.RouterGroup, api *KioskoAPI) {
		g.POST("/api/auth/login", api.Login())
		g.POST("/api/auth/register", api.Register())
	}
}

func (api *KioskoAPI) Login() GinHandler {
	return func(c *gin.Context) {
		var req service.LoginReq
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err.Error())
			return
		}
		user, err := api.KioskoService.Login(c.Request.Context(), req)
		switch {
		case err == nil:
			response.OK(c, 200, user)
		case errors.Is(err, service.ErrBadCredentials):
			response.Error(c, 401, err.Error())
		case errors.Is(err, service.ErrNotVerified):
			// distinct outcome: the credentials were right
			response.Error(c, 400, err.Error())
		default:
			response.Error(c, 500, err.Error())
		}
	}
}

func (api *KioskoAPI) Register() GinHandler {
	return func(c *gin.Context) {
		var user model.User
		if err := c.ShouldBindJSON(&user); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err.Error())
			return
		}
		created, err := api.KioskoService.Register(c.Request.Context(), user)
		switch {
		case err == nil:
			response.OK(c, 200, created)
		case errors.Is(err, service.ErrEmailTaken):
			response.Error(c, 400, err.Error())
		default:
			response.Error(c, 500, err.Error())
		}
	}
}
