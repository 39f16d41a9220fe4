package quotes

import (
	"Backend-VentSurvey/src/database"
	"Backend-VentSurvey/src/models"
	"Backend-VentSurvey/src/services/assets"
	"Backend-VentSurvey/src/services/collections"
	"Backend-VentSurvey/src/services/pricing"
	"Backend-VentSurvey/src/services/sites"
	"Backend-VentSurvey/src/services/surveys"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrQuoteNotFound = errors.New("quote not found")

// อัตรา VAT มาตรฐาน UK
const vatRate = 0.20

// QuoteStore persistence ของใบเสนอราคา
type QuoteStore interface {
	Insert(ctx context.Context, quote *models.Quote) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Quote, error)
	Update(ctx context.Context, quote *models.Quote) error
}

// MongoQuoteStore implements QuoteStore บน MongoDB
type MongoQuoteStore struct {
	coll *mongo.Collection
}

func NewMongoQuoteStore(coll *mongo.Collection) *MongoQuoteStore {
	return &MongoQuoteStore{coll: coll}
}

func (s *MongoQuoteStore) Insert(ctx context.Context, quote *models.Quote) error {
	_, err := s.coll.InsertOne(ctx, quote)
	return err
}

func (s *MongoQuoteStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Quote, error) {
	var quote models.Quote
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&quote)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}
	return &quote, nil
}

func (s *MongoQuoteStore) Update(ctx context.Context, quote *models.Quote) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": quote.ID}, quote)
	return err
}

// Service ประกอบใบเสนอราคาจาก survey ใน collection และ render เป็น PDF
type Service struct {
	store     QuoteStore
	members   *collections.Service
	surveys   *surveys.Service
	pricing   pricing.Lookup
	assets    assets.Store
	directory sites.Directory
}

func NewService(store QuoteStore, members *collections.Service, surveyService *surveys.Service, lookup pricing.Lookup, assetStore assets.Store, directory sites.Directory) *Service {
	return &Service{
		store:     store,
		members:   members,
		surveys:   surveyService,
		pricing:   lookup,
		assets:    assetStore,
		directory: directory,
	}
}

var (
	defaultService *Service
	defaultOnce    sync.Once
)

func Default() *Service {
	defaultOnce.Do(func() {
		if err := database.ConnectMongoDB(); err != nil {
			log.Fatal("MongoDB connection error:", err)
		}
		defaultService = NewService(
			NewMongoQuoteStore(database.QuoteCollection),
			collections.Default(),
			surveys.Default(),
			pricing.Default(),
			assets.Default(),
			sites.Default(),
		)
	})
	return defaultService
}

// Build ประกอบ line item จาก equipment + canopy ของทุกพื้นที่ใน collection
// ราคาที่หาไม่เจอใน price book จะเป็น POA (Price = nil) ไม่ทำให้ quote ล้ม
func (s *Service) Build(ctx context.Context, collectionID primitive.ObjectID) (*models.Quote, error) {
	collection, err := s.members.Get(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	// เรียงตาม areaIndex — ลำดับนี้คือ "Area 1, Area 2, ..." บน PDF
	members, err := s.surveys.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.QuoteLine, 0)
	var subtotal int64
	currency := "GBP"

	for i := range members {
		survey := &members[i]
		areaLabel := survey.StructureID
		if areaLabel == "" {
			areaLabel = fmt.Sprintf("Area %d", i+1)
		}

		for _, item := range survey.Equipment {
			price, err := s.pricing.FindPrice(ctx, item.Category, item.Subcategory, item.Name, item.Grade)
			if err != nil {
				log.Printf("⚠️ price lookup failed for %s/%s/%s: %v", item.Category, item.Subcategory, item.Name, err)
				price = nil
			}

			line := models.QuoteLine{
				AreaLabel:   areaLabel,
				Description: fmt.Sprintf("%s (%s grade)", item.Name, item.Grade),
				Quantity:    item.Quantity,
				Unit:        item.Unit,
				Price:       price,
			}
			if price != nil {
				total := price.Amount * int64(item.Quantity)
				line.LineTotal = &models.Money{Amount: total, Currency: price.Currency}
				subtotal += total
				currency = price.Currency
			}
			lines = append(lines, line)
		}

		for _, canopy := range survey.Canopies {
			price, err := s.pricing.FindPrice(ctx, "canopy", canopy.FilterType, "canopy clean", "")
			if err != nil {
				log.Printf("⚠️ price lookup failed for canopy %s: %v", canopy.Label, err)
				price = nil
			}

			line := models.QuoteLine{
				AreaLabel:   areaLabel,
				Description: fmt.Sprintf("%s clean (%.1fm x %.1fm, %d filters)", canopy.Label, canopy.LengthM, canopy.WidthM, canopy.FilterCount),
				Quantity:    1,
				Unit:        "each",
				Price:       price,
			}
			if price != nil {
				line.LineTotal = &models.Money{Amount: price.Amount, Currency: price.Currency}
				subtotal += price.Amount
				currency = price.Currency
			}
			lines = append(lines, line)
		}
	}

	vat := int64(float64(subtotal) * vatRate)
	now := time.Now().UTC()

	quote := &models.Quote{
		ID:           primitive.NewObjectID(),
		CollectionID: collectionID,
		SiteID:       collection.SiteID,
		QuoteRef:     collection.CollectionRef,
		Status:       models.QuoteStatusDraft,
		Lines:        lines,
		Subtotal:     models.Money{Amount: subtotal, Currency: currency},
		VAT:          models.Money{Amount: vat, Currency: currency},
		Total:        models.Money{Amount: subtotal + vat, Currency: currency},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Insert(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// Get ดึงใบเสนอราคาตาม id
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.Quote, error) {
	return s.store.FindByID(ctx, id)
}

// Render สร้าง PDF จาก quote แล้วอัปโหลดขึ้น asset store
// ใช้เวลานาน (headless chrome) — ปกติเรียกผ่าน asynq task ไม่ใช่ HTTP ตรง
func (s *Service) Render(ctx context.Context, quoteID primitive.ObjectID) (*models.Quote, error) {
	quote, err := s.store.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	var site *models.Site
	if s.directory != nil {
		if found, err := s.directory.Get(ctx, quote.SiteID); err == nil {
			site = found
		}
	}

	html, err := buildQuoteHTML(quote, site)
	if err != nil {
		return nil, err
	}

	pdf, err := renderHTMLToPDF(ctx, html)
	if err != nil {
		return nil, err
	}

	if s.assets != nil {
		asset, err := s.assets.Upload(ctx, pdf, "application/pdf")
		if err != nil {
			return nil, err
		}

		// เคลียร์ PDF เก่าทิ้ง ถ้ามี
		if quote.PDFAssetID != "" {
			if err := s.assets.Delete(ctx, quote.PDFAssetID); err != nil {
				log.Printf("⚠️ failed to delete stale quote PDF %s: %v", quote.PDFAssetID, err)
			}
		}
		quote.PDFAssetID = asset.AssetID
		quote.PDFURL = asset.URL
	} else {
		log.Println("⚠️ asset store not configured, quote PDF rendered but not uploaded")
	}

	quote.Status = models.QuoteStatusRendered
	quote.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// DeletePDF ลบ PDF ของ quote ออกจาก asset store และเคลียร์ field
func (s *Service) DeletePDF(ctx context.Context, quoteID primitive.ObjectID) (*models.Quote, error) {
	quote, err := s.store.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.PDFAssetID == "" {
		return quote, nil
	}

	if s.assets != nil {
		if err := s.assets.Delete(ctx, quote.PDFAssetID); err != nil {
			return nil, err
		}
	}

	quote.PDFAssetID = ""
	quote.PDFURL = ""
	quote.Status = models.QuoteStatusDraft
	quote.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}
