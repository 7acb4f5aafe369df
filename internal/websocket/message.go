package websocket

import (
	"encoding/json"

	"github.com/abhinav-rajesh/BOOKSHELF/internal/models"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewReviewMessage builds the wire form of a review activity message.
func NewReviewMessage(review models.Review) []byte {
	msg := Message{Action: "review.submitted", Payload: review}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil
	}
	return data
}

// NewErrorMessage builds the wire form of an error message.
func NewErrorMessage(text string) []byte {
	msg := Message{Action: "error", Payload: map[string]string{"message": text}}
	data, _ := json.Marshal(msg)
	return data
}
