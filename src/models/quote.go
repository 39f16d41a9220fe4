package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money จำนวนเงินหน่วยย่อย (เพนนี) กันปัญหา floating point
type Money struct {
	Amount   int64  `json:"amount" bson:"amount" example:"12500"`
	Currency string `json:"currency" bson:"currency" example:"GBP"`
}

// Asset ไฟล์ที่เก็บบน cloud storage แล้ว
type Asset struct {
	AssetID string `json:"assetId" bson:"assetId"`
	URL     string `json:"url" bson:"url"`
}

// QuoteLine รายการราคา 1 บรรทัดในใบเสนอราคา
// Price เป็น nil = ไม่พบราคาใน price book (แสดงเป็น POA)
type QuoteLine struct {
	AreaLabel   string `json:"areaLabel" bson:"areaLabel" example:"Main Kitchen"`
	Description string `json:"description" bson:"description" example:"Extract duct run (heavy grade)"`
	Quantity    int    `json:"quantity" bson:"quantity"`
	Unit        string `json:"unit" bson:"unit" example:"m"`
	Price       *Money `json:"price" bson:"price"`
	LineTotal   *Money `json:"lineTotal" bson:"lineTotal"`
}

// สถานะของใบเสนอราคา
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusRendered = "rendered"
)

// Quote ใบเสนอราคาที่ประกอบจาก survey ทุกพื้นที่ใน collection เดียว
type Quote struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CollectionID primitive.ObjectID `json:"collectionId" bson:"collectionId" validate:"required"`
	SiteID       primitive.ObjectID `json:"siteId" bson:"siteId"`
	QuoteRef     string             `json:"quoteRef" bson:"quoteRef"`
	Status       string             `json:"status" bson:"status" example:"draft"`
	Lines        []QuoteLine        `json:"lines" bson:"lines"`
	Subtotal     Money              `json:"subtotal" bson:"subtotal"`
	VAT          Money              `json:"vat" bson:"vat"`
	Total        Money              `json:"total" bson:"total"`
	PDFAssetID   string             `json:"pdfAssetId,omitempty" bson:"pdfAssetId,omitempty"`
	PDFURL       string             `json:"pdfUrl,omitempty" bson:"pdfUrl,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}
