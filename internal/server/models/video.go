package models

import "time"

// Video is the entity comments attach to. Only the fields the comment flows
// need are modeled here.
type Video struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}
