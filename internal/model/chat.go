package model

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload for sending a message to the assistant.
type ChatRequest struct {
	Message string `json:"message" binding:"required,min=1,max=4000"`
}

// ChatResponse carries the assistant's reply plus the stored history,
// so the client can rebuild the conversation after a reload.
type ChatResponse struct {
	Response string        `json:"response"`
	History  []ChatMessage `json:"history"`
}
