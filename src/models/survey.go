package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SurveyMembership บอกว่า survey นี้อยู่ใน collection ไหน ตำแหน่งที่เท่าไร
// Invariant: ใน survey เดียวกัน collectionId ห้ามซ้ำ และ isPrimary เป็น true ได้แค่รายการเดียว
type SurveyMembership struct {
	CollectionID  primitive.ObjectID `json:"collectionId" bson:"collectionId"`
	AreaIndex     *int               `json:"areaIndex" bson:"areaIndex"` // nil = ยังไม่ได้ index, รอ reindex ซ่อม
	CollectionRef string             `json:"collectionRef" bson:"collectionRef"`
	IsPrimary     bool               `json:"isPrimary" bson:"isPrimary"`
}

// AreaSurvey ข้อมูลสำรวจ 1 พื้นที่ (เช่น ครัว 1 ห้อง) ของการเข้าหน้างาน 1 ครั้ง
type AreaSurvey struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SiteID      primitive.ObjectID `json:"siteId" bson:"siteId" validate:"required"`
	RefValue    string             `json:"refValue" bson:"refValue" example:"Q-2024-0131"`
	StructureID string             `json:"structureId" bson:"structureId" example:"Main Kitchen"` // ป้ายชื่อพื้นที่ (free text)
	SurveyDate  time.Time          `json:"surveyDate" bson:"surveyDate"`

	Collections []SurveyMembership `json:"collections" bson:"collections"`

	// Deprecated: เงาของ collections[0] เขียนเฉพาะตอนสร้าง survey เพื่อ backward compat
	// ห้ามใช้ตัดสินใจอะไร — ของจริงอยู่ใน Collections
	AreaIndex     *int                `json:"areaIndex,omitempty" bson:"areaIndex,omitempty"`
	CollectionID  *primitive.ObjectID `json:"collectionId,omitempty" bson:"collectionId,omitempty"`
	CollectionRef string              `json:"collectionRef,omitempty" bson:"collectionRef,omitempty"`

	// payload ของการสำรวจ — membership engine ไม่ยุ่งกับส่วนนี้
	Structure   *StructureDetail   `json:"structure,omitempty" bson:"structure,omitempty"`
	Equipment   []EquipmentItem    `json:"equipment" bson:"equipment"`
	Canopies    []CanopySection    `json:"canopies" bson:"canopies"`
	Schematic   *SchematicData     `json:"schematic,omitempty" bson:"schematic,omitempty"`
	Ventilation *VentilationDetail `json:"ventilation,omitempty" bson:"ventilation,omitempty"`
	Operations  *OperationsDetail  `json:"operations,omitempty" bson:"operations,omitempty"`
	Notes       string             `json:"notes" bson:"notes"`
	Images      []SurveyImage      `json:"images" bson:"images"`
	Pricing     *PricingSummary    `json:"pricing,omitempty" bson:"pricing,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`

	// เติมให้ตอนตอบกลับเท่านั้น ไม่เก็บลง DB
	Site *Site `json:"site,omitempty" bson:"-"`
}

// MembershipFor หา membership record ของ collection ที่กำหนด
func (s *AreaSurvey) MembershipFor(collectionID primitive.ObjectID) (*SurveyMembership, bool) {
	for i := range s.Collections {
		if s.Collections[i].CollectionID == collectionID {
			return &s.Collections[i], true
		}
	}
	return nil, false
}

// HasPrimary เช็คว่ามี membership ไหนเป็น primary แล้วหรือยัง
func (s *AreaSurvey) HasPrimary() bool {
	for i := range s.Collections {
		if s.Collections[i].IsPrimary {
			return true
		}
	}
	return false
}

// StructureDetail ข้อมูลโครงสร้างของพื้นที่
type StructureDetail struct {
	BuildingType  string  `json:"buildingType" bson:"buildingType" example:"Restaurant"`
	Floor         string  `json:"floor" bson:"floor" example:"Ground"`
	CeilingHeight float64 `json:"ceilingHeight" bson:"ceilingHeight" example:"2.8"` // เมตร
	AccessNotes   string  `json:"accessNotes" bson:"accessNotes"`
}

// EquipmentItem อุปกรณ์ครัว/ระบบระบายอากาศที่ต้องทำความสะอาด 1 รายการ
type EquipmentItem struct {
	Category    string `json:"category" bson:"category" example:"extract"`
	Subcategory string `json:"subcategory" bson:"subcategory" example:"ductwork"`
	Name        string `json:"name" bson:"name" example:"Extract duct run"`
	Grade       string `json:"grade" bson:"grade" example:"heavy"` // ระดับคราบไขมัน: light / moderate / heavy
	Quantity    int    `json:"quantity" bson:"quantity" example:"1"`
	Unit        string `json:"unit" bson:"unit" example:"m"`
}

// CanopySection ข้อมูล canopy (ฮูดดูดควัน) 1 ตัว
type CanopySection struct {
	Label       string  `json:"label" bson:"label" example:"Canopy A"`
	LengthM     float64 `json:"lengthM" bson:"lengthM" example:"3.0"`
	WidthM      float64 `json:"widthM" bson:"widthM" example:"1.2"`
	FilterCount int     `json:"filterCount" bson:"filterCount" example:"6"`
	FilterType  string  `json:"filterType" bson:"filterType" example:"baffle"`
}

// SchematicData ผังเส้นท่อที่วาดจากหน้างาน — เก็บเป็น blob จาก canvas ฝั่ง UI
type SchematicData struct {
	Format string `json:"format" bson:"format" example:"fabric-json"`
	Data   string `json:"data" bson:"data"`
}

// VentilationDetail สภาพระบบระบายอากาศ
type VentilationDetail struct {
	ExtractFan    bool   `json:"extractFan" bson:"extractFan"`
	SupplyFan     bool   `json:"supplyFan" bson:"supplyFan"`
	AccessPanels  int    `json:"accessPanels" bson:"accessPanels"`
	DuctRunLength string `json:"ductRunLength" bson:"ductRunLength" example:"12m horizontal, 4m riser"`
	Condition     string `json:"condition" bson:"condition" example:"TR19 grade heavy"`
}

// OperationsDetail ข้อจำกัดการเข้าทำงานของหน้างาน
type OperationsDetail struct {
	CookingHours  string `json:"cookingHours" bson:"cookingHours" example:"07:00-23:00"`
	AccessWindow  string `json:"accessWindow" bson:"accessWindow" example:"23:30-06:00"`
	ParkingNotes  string `json:"parkingNotes" bson:"parkingNotes"`
	PermitToWork  bool   `json:"permitToWork" bson:"permitToWork"`
	OutOfHoursFee bool   `json:"outOfHoursFee" bson:"outOfHoursFee"`
}

// SurveyImage รูปถ่ายหน้างานที่อัปโหลดขึ้น cloud แล้ว
type SurveyImage struct {
	AssetID     string    `json:"assetId" bson:"assetId"`
	URL         string    `json:"url" bson:"url"`
	Caption     string    `json:"caption" bson:"caption"`
	ContentType string    `json:"contentType" bson:"contentType"`
	UploadedAt  time.Time `json:"uploadedAt" bson:"uploadedAt"`
}

// PricingSummary ราคาที่คิดไว้ต่อพื้นที่ (หน่วยเป็นเพนนี)
type PricingSummary struct {
	Subtotal int64  `json:"subtotal" bson:"subtotal"`
	Currency string `json:"currency" bson:"currency" example:"GBP"`
}
