package chathub

import (
	"errors"
	"fmt"
	"shopchat/backend/internal/models"
	"strings"
)

// HandshakeMarker is the first path segment of a relay connection URL: /ws/{role}/{conversationId}.
const HandshakeMarker = "ws"

// ErrBadHandshake marks a connection URL that does not name a valid role and conversation.
var ErrBadHandshake = errors.New("bad relay handshake")

// ParseHandshakePath extracts the participant key from a relay connection path.
func ParseHandshakePath(path string) (Key, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) != 3 || segments[0] != HandshakeMarker {
		return Key{}, fmt.Errorf("%w: unexpected path %q", ErrBadHandshake, path)
	}

	role, ok := models.ParseRole(segments[1])
	if !ok {
		return Key{}, fmt.Errorf("%w: unknown role %q", ErrBadHandshake, segments[1])
	}

	if !models.ValidConversationID(segments[2]) {
		return Key{}, fmt.Errorf("%w: invalid conversation id %q", ErrBadHandshake, segments[2])
	}

	return Key{Role: role, ConversationID: segments[2]}, nil
}
