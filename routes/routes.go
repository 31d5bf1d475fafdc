package routes

import (
	"stockinsight/controllers"

	"github.com/gin-gonic/gin"
)

func Routes(r *gin.Engine, analysis controllers.AnalysisControllerI) {

	v1 := r.Group("/api")

	{
		v1.GET("/analyzeStock", analysis.AnalyzeStock)
		v1.GET("/keepServerRunning", controllers.HealthController.IsRunning)
	}
}
