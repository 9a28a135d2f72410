package api

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"kiosko/app/kiosko/service"
)

type (
	GinHandler = func(c *gin.Context)
	Router     = func(g *gin.RouterGroup, api *KioskoAPI)
)

type KioskoAPI struct {
	KioskoService *service.KioskoService
}

func NewKioskoAPI(svc *service.KioskoService) *KioskoAPI {
	return &KioskoAPI{
		KioskoService: svc,
	}
}

var routers = make([]Router, 0)

func InitRouter(r *gin.Engine, api *KioskoAPI) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	g := r.Group("")
	for _, f := range routers {
		f(g, api)
	}
}

func ParamObjectID(c *gin.Context, name string) (primitive.ObjectID, error) {
	id := c.Param(name)
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.Wrapf(err, "invalid object id %q", id)
	}
	return oid, nil
}
