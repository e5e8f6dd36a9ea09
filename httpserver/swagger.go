package httpserver

import (
	"moviecatalog/docs"

	echoSwagger "github.com/swaggo/echo-swagger"
)

func (s *Server) RegisterSwaggerRoutes() {
	s.Router.GET("/swagger/*", echoSwagger.EchoWrapHandler(
		echoSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
		echoSwagger.DocExpansion("list"),
	))
}
