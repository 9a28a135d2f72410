package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"kiosko/common/log"
	"kiosko/common/realtime"
	"kiosko/common/response"
)

func init() {
	routers = append(routers, rankingRouter())
}

func rankingRouter() Router {
	return func(g *gin.RouterGroup, api *KioskoAPI) {
		g.GET("/api/ranking", api.GetRanking())
		g.GET("/api/ranking/ws", api.RankingFeed())
		g.POST("/api/ranking/export", api.ExportRanking())
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (api *KioskoAPI) GetRanking() GinHandler {
	return func(c *gin.Context) {
		ranked, err := api.KioskoService.Ranking(c.Request.Context())
		if err != nil {
			response.Error(c, 500, err.Error())
			return
		}
		response.OK(c, 200, ranked)
	}
}

// RankingFeed upgrades the connection and keeps it registered for
// leaderboard broadcasts until the peer goes away.
func (api *KioskoAPI) RankingFeed() GinHandler {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Errorf("websocket upgrade: %s", err.Error())
			return
		}
		realtime.RegisterClient(conn)
		defer func() {
			realtime.UnregisterClient(conn)
			_ = conn.Close()
		}()

		// send the current standings right away
		if ranked, err := api.KioskoService.Ranking(c.Request.Context()); err == nil {
			_ = conn.WriteJSON(ranked)
		}

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}

func (api *KioskoAPI) ExportRanking() GinHandler {
	return func(c *gin.Context) {
		url, err := api.KioskoService.ExportRanking(c.Request.Context())
		if err != nil {
			response.Error(c, 500, err.Error())
			return
		}
		response.OK(c, 200, gin.H{"url": url})
	}
}
