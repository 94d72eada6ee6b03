package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Category struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageSrc     string             `bson:"imageSrc,omitempty" json:"imageSrc,omitempty"`
	Type         string             `bson:"type,omitempty" json:"type,omitempty"` // e.g. "gender", "dress-style"
	ProductCount int                `bson:"productCount" json:"productCount"`
}
