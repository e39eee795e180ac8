package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/CanvassHQ/canvass-backend/internal/canvass"
	"github.com/CanvassHQ/canvass-backend/internal/db"
	"github.com/CanvassHQ/canvass-backend/internal/directory"
	"github.com/CanvassHQ/canvass-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	canvass.Init(canvass.ConfigFromEnv())

	tokenMW := middleware.TokenMiddleware(
		canvass.VolunteerInfo{},
		os.Getenv("JWT_SECRET"),
		os.Getenv("JWT_ISS"),
	)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)
	r.Get("/poke", canvass.PokeHandler)

	v1 := chi.NewRouter()
	v1.Use(middleware.RateLimitMiddleware)
	v1.Use(tokenMW)
	v1.Get("/hello", canvass.HelloHandler)
	v1.Mount("/people", canvass.SetupRoutes())
	directory.RegisterRoutes(v1)

	r.Mount("/canvass/v1", v1)

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}
