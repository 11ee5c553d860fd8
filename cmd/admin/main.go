// Package main provides back-office account utilities for vzsocial.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"vzsocial/internal/config"
	"vzsocial/internal/database"
	"vzsocial/internal/models"
	"vzsocial/internal/repository"
	"vzsocial/internal/service"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin promote <username|email>          - Grant the admin role")
	fmt.Println("  go run ./cmd/admin demote <username|email>           - Reset to the user role")
	fmt.Println("  go run ./cmd/admin set-role <username|email> <role>  - admin, user or moderator")
	fmt.Println("  go run ./cmd/admin list-admins                       - List back-office users")
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	admins := service.NewAdminService(repository.NewAdminRepository(db))
	ctx := context.Background()

	switch os.Args[1] {
	case "promote":
		if len(os.Args) < 3 {
			usage()
		}
		setRole(ctx, admins, os.Args[2], models.AdminRoleAdmin)
	case "demote":
		if len(os.Args) < 3 {
			usage()
		}
		setRole(ctx, admins, os.Args[2], models.AdminRoleUser)
	case "set-role":
		if len(os.Args) < 4 {
			usage()
		}
		setRole(ctx, admins, os.Args[2], os.Args[3])
	case "list-admins":
		listAdmins(ctx, admins)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func setRole(ctx context.Context, admins *service.AdminService, login, role string) {
	admin, err := admins.SetRole(ctx, login, role)
	if err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}
	fmt.Printf("✅ %s (ID: %d) is now %s\n", admin.Username, admin.ID, admin.UserType)
}

func listAdmins(ctx context.Context, admins *service.AdminService) {
	users, err := admins.List(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}
	if len(users) == 0 {
		fmt.Println("No back-office users found")
		return
	}

	fmt.Println("\n📋 Back-office users:")
	fmt.Println("─────────────────────────────────────")
	for _, a := range users {
		fmt.Printf("ID: %d | Username: %s | Email: %s | Role: %s\n", a.ID, a.Username, a.Email, a.UserType)
	}
	fmt.Println("─────────────────────────────────────")
}
