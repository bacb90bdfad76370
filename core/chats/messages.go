// Package chats defines the conversation types and the boundary to the
// remote chat backend that produces assistant replies.
package chats

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of the conversation log. Messages are
// never mutated after they are appended.
type Message struct {
	Role    Role
	Content string
}
