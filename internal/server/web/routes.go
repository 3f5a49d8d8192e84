package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) routes() {
	r := s.engine

	r.Use(gin.Recovery(), s.requestLogger(), s.observe(), s.loadSession())

	r.Static("/static", s.publicDir)
	r.GET("/healthz", s.healthz)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	r.GET("/", s.index)
	r.GET("/register", s.registerForm)
	r.POST("/register-step1", s.registerStep1)
	r.POST("/register-step2", s.registerStep2)
	r.GET("/login", s.loginForm)
	r.POST("/login", s.login)
	r.GET("/logout", s.logout)
	r.GET("/qr", s.qrForm)
	r.POST("/qr", s.qrImage)
	r.GET("/downloads", s.downloadList)
	r.GET("/downloads/*name", s.downloadFile)

	user := r.Group("/", s.requireUser())
	{
		user.GET("/dashboard", s.dashboard)
		user.GET("/profile", s.profile)
		user.POST("/profile", s.updateProfile)
		user.GET("/qr/referral", s.referralQR)
	}

	r.GET("/admin-login", s.adminLoginForm)
	r.POST("/admin-login", s.adminLogin)
	r.GET("/admin-logout", s.adminLogout)

	admin := r.Group("/", s.requireAdmin())
	{
		admin.GET("/admin", s.adminPanel)
		admin.POST("/verify-payment", s.verifyPayment)
		admin.POST("/reset-password", s.resetPassword)
		admin.POST("/delete-user", s.deleteUser)
	}

	r.NoRoute(func(c *gin.Context) {
		s.renderMessage(c, http.StatusNotFound, messageView{Title: "Page not found.", Link: "/", LinkText: "Home"})
	})
}
