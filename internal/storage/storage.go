// Package storage зберігає повідомлення чату підтримки в реляційній БД
// та дублює присутність живих з'єднань у Redis.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"shopchat/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// MessageStore - журнал повідомлень (тільки додавання) зі змінним прапорцем прочитання.
type MessageStore interface {
	InsertMessage(ctx context.Context, conversationID, senderID, text string, isRead bool) (*models.ChatMessage, error)
	MarkRead(ctx context.Context, messageID uint) error
	MarkAllRead(ctx context.Context, conversationID string) error
	ListByConversation(ctx context.Context, conversationID string) ([]models.ChatMessage, error)
	CountUnreadFromAdmin(ctx context.Context, conversationID string) (int64, error)
}

// PresenceStore відображає, які розмови (з урахуванням ролі) зараз мають живе з'єднання.
type PresenceStore interface {
	SetPresence(ctx context.Context, role models.Role, conversationID string, online bool) error
	OnlineConversations(ctx context.Context, role models.Role) ([]string, error)
}

// Storage - усе, що потрібно relay від зовнішніх сервісів.
type Storage interface {
	MessageStore
	PresenceStore
	Ping(ctx context.Context) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor. rdb може бути nil, тоді присутність у Redis не ведеться.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// Migrate створює або оновлює таблицю повідомлень.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.ChatMessage{})
}

// InsertMessage додає повідомлення в розмову. Повернутий запис містить ID та CreatedAt з БД.
func (s *Service) InsertMessage(ctx context.Context, conversationID, senderID, text string, isRead bool) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		UserID:   conversationID,
		SenderID: senderID,
		Text:     text,
		IsRead:   isRead,
	}

	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for conversation %s: %v", conversationID, err)
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

// MarkRead позначає одне повідомлення прочитаним. Невідомий або вже прочитаний id - не помилка.
func (s *Service) MarkRead(ctx context.Context, messageID uint) error {
	err := s.DB.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("id = ? AND is_read = ?", messageID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("mark message %d read: %w", messageID, err)
	}
	return nil
}

// MarkAllRead позначає прочитаними всі непрочитані повідомлення розмови.
func (s *Service) MarkAllRead(ctx context.Context, conversationID string) error {
	err := s.DB.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("user_id = ? AND is_read = ?", conversationID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("mark conversation %s read: %w", conversationID, err)
	}
	return nil
}

// ListByConversation повертає всю розмову в порядку створення.
func (s *Service) ListByConversation(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	history := []models.ChatMessage{}
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", conversationID).
		Order("created_at asc").
		Order("id asc").
		Find(&history).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("ERROR: Failed to get chat history for conversation %s: %v", conversationID, err)
		return nil, fmt.Errorf("list conversation %s: %w", conversationID, err)
	}
	return history, nil
}

// CountUnreadFromAdmin рахує повідомлення оператора, які клієнт ще не прочитав.
func (s *Service) CountUnreadFromAdmin(ctx context.Context, conversationID string) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("user_id = ? AND sender_id = ? AND is_read = ?", conversationID, models.AdminIdentity, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count unread for %s: %w", conversationID, err)
	}
	return count, nil
}

// Ping перевіряє з'єднання з БД.
func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
