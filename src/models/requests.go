package models

// CreateSurveyRequest payload ของ POST /surveys
// CollectionID ไม่ส่งมา = ให้ระบบสร้าง collection ใหม่ (ถ้า autoCreateCollection เปิดอยู่)
type CreateSurveyRequest struct {
	Survey               AreaSurvey `json:"survey"`
	CollectionID         *string    `json:"collectionId"`
	AreaIndex            *int       `json:"areaIndex"`
	AutoCreateCollection *bool      `json:"autoCreateCollection"` // default true
}

// AttachSurveyRequest payload ของ POST /collections/:id/surveys/:surveyId
type AttachSurveyRequest struct {
	AreaIndex *int `json:"areaIndex"`
	IsPrimary bool `json:"isPrimary"`
}

// RenameCollectionRequest payload ของ PUT /collections/:id
type RenameCollectionRequest struct {
	Name          *string `json:"name"`
	CollectionRef *string `json:"collectionRef"`
}

// BuildQuoteRequest payload ของ POST /quotes
type BuildQuoteRequest struct {
	CollectionID string `json:"collectionId" validate:"required"`
}
