// Command token mints an admin bearer token for the write routes.
//
//	JWT_SECRET=... go run ./cmd/token -sub ops -ttl 12h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"bookgraph/internal/shared/utils"
	"bookgraph/pkg/jwt"
)

func main() {
	_ = godotenv.Load()

	subject := flag.String("sub", "operator", "token subject")
	role := flag.String("role", jwt.RoleAdmin, "token role")
	ttl := flag.Duration("ttl", jwt.DefaultTTL, "token lifetime")
	flag.Parse()

	secret := utils.GetEnvVariable("JWT_SECRET", "")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := mint(jwt.NewManager(secret), *subject, *role, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to mint token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func mint(m *jwt.Manager, subject, role string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("subject is required")
	}
	return m.GenerateToken(subject, role, ttl)
}
