package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/GrainArc/PanelForge/views"
)

func PanelRouters(r *gin.Engine) {
	UserController := &views.UserController{}
	shellRouter := r.Group("/shell")
	{
		shellRouter.POST("/Upload", UserController.ShellUpload)
		shellRouter.GET("/GetShellList", UserController.GetShellList)
		shellRouter.GET("/GetShell", UserController.GetShell)
		shellRouter.POST("/UVToMesh", UserController.UVToMesh)
	}
	panelRouter := r.Group("/panel")
	{
		panelRouter.POST("/SampleCurve", UserController.SampleCurve)
		panelRouter.POST("/QuadFill", UserController.QuadFill)
		panelRouter.POST("/UVToShell", UserController.UVToShell)
		panelRouter.POST("/ShellToUV", UserController.ShellToUV)
		panelRouter.POST("/AutoPave", UserController.AutoPave)
		panelRouter.POST("/CheckUVBoundary", UserController.CheckUVBoundary)
		panelRouter.POST("/Mirror", UserController.MirrorPanel)
		panelRouter.GET("/Preview", UserController.Preview)
		panelRouter.GET("/Download", UserController.DownloadPanel)

		panelRouter.GET("/GetPaveRecords", UserController.GetPaveRecords)
		panelRouter.GET("/GetCheckRecords", UserController.GetCheckRecords)
	}
}
