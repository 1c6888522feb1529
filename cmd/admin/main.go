// Операторський CLI: створення адмін-акаунтів та службові операції
// над скаргами без підняття HTTP-сервера.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"civicgo/backend/internal/complaint"
	"civicgo/backend/internal/config"
	"civicgo/backend/internal/models"
	"civicgo/backend/internal/storage"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// noopNotifier вимикає сповіщення для операцій з CLI.
type noopNotifier struct{}

func (noopNotifier) ComplaintSubmitted(*models.Complaint) {}
func (noopNotifier) StatusChanged(*models.Complaint, models.ComplaintStatus, models.ComplaintStatus) {
}
func (noopNotifier) ResolutionConfirmationRequested(*models.Complaint) {}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI
	complaints := complaint.NewService(storageSvc, noopNotifier{})

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: create-admin, set-status, delete, stats")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "create-admin":
		if len(os.Args) != 5 {
			fmt.Println("Usage: admin create-admin <name> <email> <password>")
			os.Exit(1)
		}
		if err := createAdmin(storageSvc, os.Args[2], os.Args[3], os.Args[4]); err != nil {
			log.Fatalf("Error creating admin: %v", err)
		}
		fmt.Printf("Admin account %s has been created.\n", os.Args[3])

	case "set-status":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin set-status <complaint_id> <status> [notes]")
			os.Exit(1)
		}
		id, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Println("Invalid complaint ID. Please provide an integer.")
			os.Exit(1)
		}
		status, ok := models.ParseComplaintStatus(os.Args[3])
		if !ok {
			fmt.Println("Unknown status. Use PENDING, IN_PROGRESS or RESOLVED.")
			os.Exit(1)
		}
		notes := ""
		if len(os.Args) > 4 {
			notes = os.Args[4]
		}
		if err := setStatus(storageSvc, uint(id), status, notes); err != nil {
			log.Fatalf("Error updating complaint: %v", err)
		}
		fmt.Printf("Complaint %d is now %s.\n", id, status)

	case "delete":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin delete <complaint_id>")
			os.Exit(1)
		}
		id, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Println("Invalid complaint ID. Please provide an integer.")
			os.Exit(1)
		}
		if err := complaints.Delete(uint(id)); err != nil {
			log.Fatalf("Error deleting complaint: %v", err)
		}
		fmt.Printf("Complaint %d and its attachments have been deleted.\n", id)

	case "stats":
		stats, err := complaints.GetStats()
		if err != nil {
			log.Fatalf("Error loading stats: %v", err)
		}
		fmt.Printf("Total: %d\nPending: %d\nIn progress: %d\nResolved: %d\n",
			stats.TotalComplaints, stats.PendingComplaints,
			stats.InProgressComplaints, stats.ResolvedComplaints)

	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func createAdmin(s storage.Storage, name, email, password string) error {
	exists, err := s.UserExistsByEmail(email)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("email %s is already taken", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.SaveUser(&models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleAdmin,
		Enabled:  true,
	})
}

func setStatus(s storage.Storage, id uint, status models.ComplaintStatus, notes string) error {
	// Переходи з CLI записуються в аудит як системні (без користувача),
	// тому не йдемо через UpdateStatus, який вимагає адміна.
	c, err := s.GetComplaintByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return complaint.ErrNotFound
	}

	previous := c.Status
	c.Status = status
	if notes != "" {
		c.AdminNotes = notes
	}

	return s.SaveComplaintWithUpdate(c, &models.ComplaintUpdate{
		Message:        fmt.Sprintf("Status updated from %s to %s", previous, status),
		PreviousStatus: previous,
		NewStatus:      status,
	})
}
