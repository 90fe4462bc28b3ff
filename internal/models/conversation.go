package models

import "regexp"

var conversationIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidConversationID reports whether id can name a customer conversation.
// AdminIdentity is reserved: a conversation with that id would record customer
// messages as operator messages.
func ValidConversationID(id string) bool {
	return id != AdminIdentity && conversationIDPattern.MatchString(id)
}
