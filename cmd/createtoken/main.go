// Command createtoken prints an access token for a user id, for local testing.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "user id to embed in the token")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateAccessToken(*userID)
	if err != nil {
		log.Fatal("Failed to generate token: ", err)
	}

	fmt.Println(token)
	fmt.Printf("expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
