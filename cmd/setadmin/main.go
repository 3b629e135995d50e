package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/FindHome-mobile/FindHome-Backend/internal/config"
	"github.com/FindHome-mobile/FindHome-Backend/internal/db"
	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	repo "github.com/FindHome-mobile/FindHome-Backend/internal/repository"
	"github.com/FindHome-mobile/FindHome-Backend/internal/repository/mongodb"
)

func main() {
	email := flag.String("email", "", "Email of the user to update")
	role := flag.String("role", string(models.RoleAdmin), "Role to set: client, proprietaire or admin")
	flag.Parse()

	if *email == "" {
		fmt.Println("Usage: setadmin -email=someone@example.com [-role=admin]")
		return
	}
	r := models.Role(*role)
	if !r.Valid() {
		log.Fatalf("invalid role %q", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := db.NewClient(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users := mongodb.NewUsers(client.Database(cfg.MongoDB))
	u, err := users.GetByEmail(ctx, *email)
	if errors.Is(err, repo.ErrNotFound) {
		log.Fatalf("user %s not found", *email)
	}
	if err != nil {
		log.Fatal("lookup failed: ", err)
	}
	if u.Role == r {
		fmt.Printf("User %s already has role %s\n", *email, r)
		return
	}

	if err := users.UpdateRole(ctx, u.ID, r); err != nil {
		log.Fatal("update failed: ", err)
	}
	fmt.Printf("User %s (%s) updated from %s to %s\n", *email, u.ID, u.Role, r)
}
