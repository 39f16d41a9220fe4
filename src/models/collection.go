package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PendingRef ใช้แทน collectionRef ชั่วคราว ตอนสร้าง collection โดยที่ survey แรกยังไม่มี refValue
const PendingRef = "TBC"

// SurveyCollection กลุ่มของ AreaSurvey ที่มาจากการเข้าสำรวจหน้างานครั้งเดียวกัน
// ลำดับใน Surveys คือ "ลำดับที่ถูกเพิ่ม" ไม่ใช่ลำดับ areaIndex
type SurveyCollection struct {
	ID            primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	SiteID        primitive.ObjectID   `json:"siteId" bson:"siteId" validate:"required"`
	Name          string               `json:"name" bson:"name" example:"Main Kitchen Visit"`
	CollectionRef string               `json:"collectionRef" bson:"collectionRef" example:"Q-2024-0131"`
	Surveys       []primitive.ObjectID `json:"surveys" bson:"surveys"`
	TotalAreas    int                  `json:"totalAreas" bson:"totalAreas"` // ต้องเท่ากับ len(Surveys) เสมอ
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Contains เช็คว่า survey อยู่ในลำดับของ collection นี้หรือไม่
func (c *SurveyCollection) Contains(surveyID primitive.ObjectID) bool {
	for _, id := range c.Surveys {
		if id == surveyID {
			return true
		}
	}
	return false
}
