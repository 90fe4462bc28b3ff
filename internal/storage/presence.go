package storage

import (
	"context"
	"shopchat/backend/internal/models"
	"sort"
)

const presenceKeyPrefix = "chat:online:"

// PresenceKey - Redis set з id розмов, де роль зараз онлайн.
func PresenceKey(role models.Role) string {
	return presenceKeyPrefix + role.String()
}

// SetPresence додає або видаляє розмову з online-набору ролі.
func (s *Service) SetPresence(ctx context.Context, role models.Role, conversationID string, online bool) error {
	if s.Redis == nil {
		return nil
	}
	if online {
		return s.Redis.SAdd(ctx, PresenceKey(role), conversationID).Err()
	}
	return s.Redis.SRem(ctx, PresenceKey(role), conversationID).Err()
}

// OnlineConversations повертає відсортовані id розмов, позначених онлайн для ролі.
func (s *Service) OnlineConversations(ctx context.Context, role models.Role) ([]string, error) {
	if s.Redis == nil {
		return []string{}, nil
	}
	ids, err := s.Redis.SMembers(ctx, PresenceKey(role)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// ClearPresence очищає присутність усіх ролей. Сервер викликає її під час старту:
// живі з'єднання не переживають перезапуск.
func (s *Service) ClearPresence(ctx context.Context) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, PresenceKey(models.RoleCustomer), PresenceKey(models.RoleAdmin)).Err()
}
