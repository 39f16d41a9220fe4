package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Site หน้างานที่เข้าไปสำรวจ (ร้านอาหาร โรงแรม โรงครัวกลาง ฯลฯ)
type Site struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name" validate:"required" example:"The Golden Wok"`
	Address      string             `json:"address" bson:"address" example:"12 Market Street"`
	City         string             `json:"city" bson:"city" example:"Manchester"`
	Postcode     string             `json:"postcode" bson:"postcode" example:"M1 1AA"`
	ContactName  string             `json:"contactName" bson:"contactName"`
	ContactPhone string             `json:"contactPhone" bson:"contactPhone"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}
