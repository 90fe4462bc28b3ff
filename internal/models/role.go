package models

// AdminIdentity is the sender id recorded for every operator-authored message.
// Direction of a stored message is derived by comparing SenderID against it.
const AdminIdentity = "admin"

// Role is the side of a support conversation a participant acts as.
type Role string

const (
	// RoleCustomer is the storefront customer that owns the conversation.
	RoleCustomer Role = "user"
	// RoleAdmin is a back-office operator answering the customer.
	RoleAdmin Role = "admin"
)

// ParseRole maps a handshake path segment onto a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Counterpart returns the role on the other end of a conversation.
func (r Role) Counterpart() Role {
	if r == RoleAdmin {
		return RoleCustomer
	}
	return RoleAdmin
}

func (r Role) String() string { return string(r) }

// RoleOf classifies a stored or requested sender id.
func RoleOf(senderID string) Role {
	if senderID == AdminIdentity {
		return RoleAdmin
	}
	return RoleCustomer
}

// SenderFor returns the sender id of record for a role speaking in a conversation.
func SenderFor(role Role, conversationID string) string {
	if role == RoleAdmin {
		return AdminIdentity
	}
	return conversationID
}
