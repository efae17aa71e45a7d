package models

import "time"

// Comment is a user comment on a video.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video"`
	OwnerID   string    `json:"owner"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentOwner is the public slice of the comment author joined into listings.
type CommentOwner struct {
	Username  string `json:"username"`
	FullName  string `json:"fullname"`
	AvatarURL string `json:"avatar"`
}

// CommentWithOwner is a comment enriched with its author's public fields,
// as returned by video comment listings.
type CommentWithOwner struct {
	Comment
	Owner CommentOwner `json:"ownerOfComment"`
}
