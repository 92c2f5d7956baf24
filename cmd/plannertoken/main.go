// Command plannertoken mints a bearer token for a planner started with JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"route_planner/internal/config"
	"route_planner/internal/middleware"
)

func main() {
	subject := flag.String("sub", "planner", "token subject")
	ttl := flag.Duration("ttl", 72*time.Hour, "token lifetime")
	flag.Parse()

	cfg := config.Load()
	token, err := middleware.GenerateToken(*subject, cfg.JWTSecret, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "plannertoken:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
