package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/GrainArc/PanelForge/config"
	"github.com/GrainArc/PanelForge/models"
	"github.com/GrainArc/PanelForge/routers"
)

func main() {
	models.InitDB()

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	routers.PanelRouters(r)

	log.Printf("服务启动: %s", config.MainRouter)
	if err := r.Run(config.MainRouter); err != nil {
		log.Fatalf("服务启动失败: %v", err)
	}
}
