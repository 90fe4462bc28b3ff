package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"shopchat/backend/internal/api/handler"
	"shopchat/backend/internal/config"
	"shopchat/backend/internal/history"
	"shopchat/backend/internal/models"
	"shopchat/backend/internal/storage"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const usage = `Usage: admin <command> [args]

Commands:
  history <conversation_id>                 print a conversation
  unread <conversation_id>                  count support replies the customer has not read
  mark-all-read <conversation_id>           mark every message of a conversation read
  export <conversation_id> [file.xlsx]      write a conversation to a spreadsheet
  online [user|admin]                       list conversations mirrored as online
  token <operator> [duration_in_hours]      issue an operator token for admin connections`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	command := os.Args[1]
	ctx := context.Background()

	// token needs no database
	if command == "token" {
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin token <operator> [duration_in_hours]")
			os.Exit(1)
		}
		hours := 12
		if len(os.Args) > 3 {
			var err error
			hours, err = strconv.Atoi(os.Args[3])
			if err != nil || hours <= 0 {
				fmt.Println("Invalid duration. Please provide a positive integer.")
				os.Exit(1)
			}
		}
		token, err := handler.GenerateAdminToken(cfg.AdminTokenSecret, os.Args[2], time.Duration(hours)*time.Hour)
		if err != nil {
			log.Fatalf("Error issuing token: %v", err)
		}
		fmt.Println(token)
		return
	}

	if command == "online" {
		role := models.RoleCustomer
		if len(os.Args) > 2 {
			var ok bool
			if role, ok = models.ParseRole(os.Args[2]); !ok {
				fmt.Println("Usage: admin online [user|admin]")
				os.Exit(1)
			}
		}
		rdb, err := storage.OpenRedis(ctx, cfg)
		if err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		if rdb == nil {
			fmt.Println("REDIS_ADDR is not set; presence is only visible via GET /chat/online")
			os.Exit(1)
		}
		defer rdb.Close()

		ids, err := storage.NewStorageService(nil, rdb).OnlineConversations(ctx, role)
		if err != nil {
			log.Fatalf("Error reading presence: %v", err)
		}
		fmt.Printf("%d %s connection(s) online\n", len(ids), role)
		for _, id := range ids {
			fmt.Println(id)
		}
		return
	}

	if len(os.Args) < 3 {
		fmt.Println(usage)
		os.Exit(1)
	}
	conversationID := os.Args[2]

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	svc := history.NewService(storage.NewStorageService(db, nil)) // No redis needed for history commands

	switch command {
	case "history":
		items, err := svc.GetHistory(ctx, conversationID)
		if err != nil {
			log.Fatalf("Error loading history: %v", err)
		}
		printHistory(os.Stdout, items)
	case "unread":
		count, err := svc.UnreadCount(ctx, conversationID)
		if err != nil {
			log.Fatalf("Error counting unread messages: %v", err)
		}
		fmt.Printf("Conversation %s has %d unread support message(s).\n", conversationID, count)
	case "mark-all-read":
		if err := svc.MarkAllRead(ctx, conversationID); err != nil {
			log.Fatalf("Error marking messages read: %v", err)
		}
		fmt.Printf("Conversation %s has been marked read.\n", conversationID)
	case "export":
		filePath := fmt.Sprintf("conversation_%s_%s.xlsx", conversationID, time.Now().Format("20060102_150405"))
		if len(os.Args) > 3 {
			filePath = os.Args[3]
		}
		items, err := svc.GetHistory(ctx, conversationID)
		if err != nil {
			log.Fatalf("Error loading history: %v", err)
		}
		if err := exportConversation(filePath, conversationID, items); err != nil {
			log.Fatalf("Error writing spreadsheet: %v", err)
		}
		fmt.Printf("Exported %d message(s) to %s\n", len(items), filePath)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

// openDatabase connects through lib/pq for postgres, or the embedded driver for sqlite.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DBDriver == config.DriverSQLite {
		return storage.OpenDatabase(cfg)
	}

	sqlDB, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
