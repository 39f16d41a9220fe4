package sites

import (
	"Backend-VentSurvey/src/database"
	"Backend-VentSurvey/src/models"
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrSiteNotFound = errors.New("site not found")

// Directory คือ site directory ที่ฝั่ง survey ใช้เช็คว่า siteId อ้างถึงหน้างานจริง
type Directory interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Site, error)
}

// Service จัดการข้อมูลหน้างาน และทำหน้าที่เป็น Directory ให้ surveys
type Service struct {
	coll *mongo.Collection
}

func NewService(coll *mongo.Collection) *Service {
	return &Service{coll: coll}
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
		defaultService = NewService(database.SiteCollection)
	})
	return defaultService
}

// Create - เพิ่มหน้างานใหม่
func (s *Service) Create(ctx context.Context, site *models.Site) error {
	site.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	site.CreatedAt = now
	site.UpdatedAt = now
	_, err := s.coll.InsertOne(ctx, site)
	return err
}

// Get - ดึงข้อมูลหน้างานตาม ID
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.Site, error) {
	var site models.Site
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&site)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}
	return &site, nil
}

// Exists - เช็คว่า site มีอยู่จริง (ใช้ validate siteId ตอนสร้าง survey)
func (s *Service) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List - ดึงหน้างานทั้งหมดแบบแบ่งหน้า ค้นหาจากชื่อ/รหัสไปรษณีย์ได้
func (s *Service) List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse, error) {
	filter := bson.M{}
	if params.Search != "" {
		pattern := primitive.Regex{Pattern: params.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"postcode": pattern},
			bson.M{"city": pattern},
		}
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	findOptions := options.Find().
		SetSkip(params.GetSkip()).
		SetLimit(int64(params.Limit))
	for field, order := range params.GetSortOrder() {
		findOptions.SetSort(bson.D{{Key: field, Value: order}})
	}

	cursor, err := s.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sites := make([]models.Site, 0)
	for cursor.Next(ctx) {
		var site models.Site
		if err := cursor.Decode(&site); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return models.NewPaginatedResponse(sites, total, params), nil
}

// Update - อัปเดตข้อมูลหน้างาน
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, site *models.Site) (*models.Site, error) {
	site.ID = id
	site.UpdatedAt = time.Now().UTC()
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": site})
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrSiteNotFound
	}
	return s.Get(ctx, id)
}

// Delete - ลบหน้างาน
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrSiteNotFound
	}
	return nil
}
