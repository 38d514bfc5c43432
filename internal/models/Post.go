package models

import "time"

// Post is an entry in the community hub feed.
type Post struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	AuthorID   string    `json:"author_id" bson:"authorId"`
	AuthorName string    `json:"author_name" bson:"authorName"`
	AuthorRole Role      `json:"author_role" bson:"authorRole"`
	Title      string    `json:"title" bson:"title"`
	Body       string    `json:"body" bson:"body"`
	PhotoURLs  []string  `json:"photo_urls,omitempty" bson:"photoUrls,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"createdAt"`
}
