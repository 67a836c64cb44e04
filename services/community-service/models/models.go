package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a community feed entry. Likes is a bare counter: repeat likes
// from one reader are indistinguishable from distinct likers.
type Post struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Content      string             `bson:"content" json:"content"`
	AuthorName   string             `bson:"author_name" json:"author_name"`
	AuthorAvatar string             `bson:"author_avatar" json:"author_avatar"`
	ImageURL     string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Likes        int64              `bson:"likes" json:"likes"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// NGO is a partner-organization registration. There is no approval
// lifecycle; a registered NGO simply appears in the directory.
type NGO struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	RegNumber     string             `bson:"reg_number" json:"reg_number"`
	PresidentName string             `bson:"president_name" json:"president_name"`
	SecretaryName string             `bson:"secretary_name" json:"secretary_name"`
	FocusArea     string             `bson:"focus_area" json:"focus_area"`
	Address       string             `bson:"address" json:"address"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Website       string             `bson:"website,omitempty" json:"website,omitempty"`
	Description   string             `bson:"description" json:"description"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
