package model

import "time"

// Notice is an in-app message for the admin console notification feed.
type Notice struct {
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
