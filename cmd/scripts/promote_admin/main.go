// One-off maintenance command: promote an existing account to admin.
//
// Usage: promote_admin -config config.yaml -username alice
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/campushub/campushub/internal/config"
	"github.com/campushub/campushub/internal/models"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	username := flag.String("username", "", "username to promote")
	flag.Parse()

	if *username == "" {
		log.Fatal("-username is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := models.InitDB(&cfg.Database); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db := models.GetDB()

	var user models.User
	if err := db.Where("username = ?", *username).First(&user).Error; err != nil {
		log.Fatalf("User %q not found: %v", *username, err)
	}

	if user.Role == models.RoleAdmin {
		fmt.Printf("User %q is already an admin\n", user.Username)
		return
	}

	if err := db.Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}

	fmt.Printf("User %q promoted to admin\n", user.Username)
}
