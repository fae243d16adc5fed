package rest

import "github.com/dmitrijs2005/pulsecity/internal/server/auth"

func (s *Server) registerRoutes() {
	e := s.echo

	e.GET("/healthz", s.health)

	news := e.Group("/news")
	news.GET("/fused", s.fusedNews)
	news.GET("/redditnews", s.redditNews)

	user := e.Group("/user")
	user.POST("/register", s.register)
	user.POST("/login", s.login)
	user.GET("/any", s.hello)
	user.GET("/onlyuser", s.helloUser, s.require(auth.CapUserGreeting))
	user.GET("/onlyAdmin", s.helloAdmin, s.require(auth.CapAdminGreeting))
	user.GET("/profile", s.profile, s.require(auth.CapProfileRead))
	user.POST("/post", s.createPost, s.require(auth.CapPostCreate))
}
