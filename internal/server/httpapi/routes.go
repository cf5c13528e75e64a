package httpapi

func (s *HTTPServer) routes() {
	s.app.Get("/", s.handleRoot)

	api := s.app.Group("/api")
	api.Post("/register", s.handleRegister)
	api.Post("/login", s.handleLogin)
	api.Get("/logout", s.authenticated(s.handleLogout))
	api.Get("/check-auth", s.authenticated(s.handleCheckAuth))

	api.Get("/auth/google", s.handleProviderRedirect)
	s.app.Get("/auth/google/callback", s.handleProviderCallback)
	s.app.Get("/auth/google/secrets", s.handleProviderCallback)

	api.Get("/secrets", s.authenticated(s.handleListSecrets))
	api.Post("/submit", s.authenticated(s.handleSubmitSecret))
	api.Post("/secrets/delete", s.authenticated(s.handleDeleteSecret))
	api.Post("/secrets/export", s.authenticated(s.handleExportSecrets))
}
