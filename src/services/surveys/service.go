package surveys

import (
	"Backend-VentSurvey/src/database"
	"Backend-VentSurvey/src/models"
	"Backend-VentSurvey/src/services/collections"
	"Backend-VentSurvey/src/services/sites"
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrSurveyNotFound       = collections.ErrSurveyNotFound
	ErrCollectionNotFound   = collections.ErrCollectionNotFound
	ErrInvalidSiteReference = errors.New("siteId does not reference an existing site")
)

// Service สร้าง/อ่าน/แก้ไข AreaSurvey และต่อเข้ากับ membership engine
type Service struct {
	surveys     collections.SurveyStore
	collections collections.CollectionStore
	members     *collections.Service
	directory   sites.Directory
}

func NewService(surveyStore collections.SurveyStore, collectionStore collections.CollectionStore, members *collections.Service, directory sites.Directory) *Service {
	return &Service{
		surveys:     surveyStore,
		collections: collectionStore,
		members:     members,
		directory:   directory,
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
			collections.NewMongoSurveyStore(database.SurveyCollection),
			collections.NewMongoCollectionStore(database.SurveyCollectionCollection),
			collections.Default(),
			sites.Default(),
		)
	})
	return defaultService
}

// CreateOptions ควบคุมว่า survey ใหม่จะเข้า collection ไหน
// AutoCreateCollection = true (ค่า default ที่ชั้น HTTP): ถ้าไม่มี collection
// ที่ใช้ได้ จะสร้าง collection ใหม่ให้เอง
type CreateOptions struct {
	CollectionID         *primitive.ObjectID
	AreaIndex            *int
	AutoCreateCollection bool
}

// CreateResult ผลการสร้าง survey — CollectionID เป็นค่า zero ได้
// ถ้า bookkeeping ล้มเหลวหรือปิด auto-create ไว้
type CreateResult struct {
	Survey       *models.AreaSurvey `json:"survey"`
	CollectionID primitive.ObjectID `json:"collectionId,omitempty"`
}

// Create สร้าง AreaSurvey ใหม่ แล้วพาเข้า collection
//
// ลำดับตามนี้ตายตัว: เขียน survey ก่อนเสมอ ถ้า bookkeeping ฝั่ง collection
// พังหลังจากนั้น จะ log แล้วคืน survey ตามปกติ — การสร้าง survey
// ห้ามล้มเพราะ collection ล้ม
func (s *Service) Create(ctx context.Context, survey *models.AreaSurvey, opts CreateOptions) (*CreateResult, error) {
	// 1) siteId ต้องอ้างถึงหน้างานจริง
	if survey.SiteID.IsZero() {
		return nil, ErrInvalidSiteReference
	}
	exists, err := s.directory.Exists(ctx, survey.SiteID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrInvalidSiteReference
	}

	// 2) เขียนตัว survey ลง store
	now := time.Now().UTC()
	survey.ID = primitive.NewObjectID()
	survey.CreatedAt = now
	survey.UpdatedAt = now
	if survey.SurveyDate.IsZero() {
		survey.SurveyDate = now
	}
	if survey.Images == nil {
		survey.Images = []models.SurveyImage{}
	}
	survey.Collections = nil

	if err := s.surveys.Insert(ctx, survey); err != nil {
		return nil, err
	}

	// 3) หา collection ปลายทาง — id ที่อ้างถึง collection ที่ถูกลบไปแล้ว
	// ถือว่าไม่ได้ส่งมา (stale reference จาก UI ค้างหน้าเก่า)
	var target *models.SurveyCollection
	if opts.CollectionID != nil {
		target, err = s.collections.FindByID(ctx, *opts.CollectionID)
		if err != nil {
			if errors.Is(err, ErrCollectionNotFound) {
				log.Printf("⚠️ create survey %s: stale collectionId %s, creating a new collection instead", survey.ID.Hex(), opts.CollectionID.Hex())
				target = nil
			} else {
				log.Printf("⚠️ create survey %s: collection lookup failed: %v", survey.ID.Hex(), err)
				return s.finishWithoutCollection(ctx, survey), nil
			}
		}
	}

	var collectionID primitive.ObjectID
	switch {
	case target != nil:
		collectionID = target.ID
		if _, err := s.members.Attach(ctx, collectionID, survey.ID, opts.AreaIndex, false); err != nil {
			log.Printf("⚠️ create survey %s: attach to %s failed: %v", survey.ID.Hex(), collectionID.Hex(), err)
			return s.finishWithoutCollection(ctx, survey), nil
		}

	case opts.AutoCreateCollection:
		created, err := s.bootstrapCollection(ctx, survey)
		if err != nil {
			log.Printf("⚠️ create survey %s: collection bootstrap failed: %v", survey.ID.Hex(), err)
			return s.finishWithoutCollection(ctx, survey), nil
		}
		collectionID = created.ID

	default:
		return s.finishWithoutCollection(ctx, survey), nil
	}

	// 4) กระจก legacy field จาก membership แรก — เขียนเฉพาะตอนสร้างเท่านั้น
	if fresh, err := s.surveys.FindByID(ctx, survey.ID); err == nil {
		mirrorLegacyFields(fresh)
		if err := s.surveys.Replace(ctx, fresh); err != nil {
			log.Printf("⚠️ create survey %s: legacy mirror write failed: %v", survey.ID.Hex(), err)
		}
		survey = fresh
	}

	// 5) verification pass: collection ต้องเห็น survey นี้จริง
	if collection, err := s.collections.FindByID(ctx, collectionID); err == nil {
		if !collection.Contains(survey.ID) {
			collection.Surveys = append(collection.Surveys, survey.ID)
			collection.TotalAreas = len(collection.Surveys)
			collection.UpdatedAt = time.Now().UTC()
			if err := s.collections.Replace(ctx, collection); err != nil {
				log.Printf("⚠️ create survey %s: verification re-append failed: %v", survey.ID.Hex(), err)
			}
		}
	}

	// เติม site ให้ฝั่ง UI ใช้ได้เลย
	if site, err := s.directory.Get(ctx, survey.SiteID); err == nil {
		survey.Site = site
	}

	return &CreateResult{Survey: survey, CollectionID: collectionID}, nil
}

// bootstrapCollection สร้าง collection ใหม่ให้ survey แรกของการเข้าสำรวจ
func (s *Service) bootstrapCollection(ctx context.Context, survey *models.AreaSurvey) (*models.SurveyCollection, error) {
	ref := survey.RefValue
	if ref == "" {
		ref = models.PendingRef
	}
	name := survey.StructureID
	if name == "" {
		name = "Site Survey"
	}

	now := time.Now().UTC()
	collection := &models.SurveyCollection{
		ID:            primitive.NewObjectID(),
		SiteID:        survey.SiteID,
		Name:          name,
		CollectionRef: ref,
		Surveys:       []primitive.ObjectID{survey.ID},
		TotalAreas:    1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.collections.Insert(ctx, collection); err != nil {
		return nil, err
	}

	zero := 0
	survey.Collections = []models.SurveyMembership{{
		CollectionID:  collection.ID,
		AreaIndex:     &zero,
		CollectionRef: ref,
		IsPrimary:     true,
	}}
	survey.UpdatedAt = now
	if err := s.surveys.Replace(ctx, survey); err != nil {
		log.Printf("⚠️ partial write: collection %s created but survey %s membership not persisted: %v", collection.ID.Hex(), survey.ID.Hex(), err)
	}
	return collection, nil
}

func (s *Service) finishWithoutCollection(ctx context.Context, survey *models.AreaSurvey) *CreateResult {
	if site, err := s.directory.Get(ctx, survey.SiteID); err == nil {
		survey.Site = site
	}
	return &CreateResult{Survey: survey}
}

// mirrorLegacyFields คัดลอก membership แรกขึ้น field เก่าระดับบนสุดของ survey
// (ของเดิมรองรับ collection เดียว) — เขียนครั้งเดียวตอนสร้าง ไม่ sync ต่อ
func mirrorLegacyFields(survey *models.AreaSurvey) {
	if len(survey.Collections) == 0 {
		return
	}
	first := survey.Collections[0]
	survey.AreaIndex = first.AreaIndex
	id := first.CollectionID
	survey.CollectionID = &id
	survey.CollectionRef = first.CollectionRef
}

// Get ดึง survey ตาม id
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.AreaSurvey, error) {
	return s.surveys.FindByID(ctx, id)
}

// ListBySite ดึง survey ทุกตัวของหน้างาน เรียงตาม surveyDate ล่าสุดก่อน
// ไม่สน collection — ใช้กับหน้า history ของ site
func (s *Service) ListBySite(ctx context.Context, siteID primitive.ObjectID) ([]models.AreaSurvey, error) {
	surveys, err := s.surveys.FindBySite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(surveys, func(i, j int) bool {
		return surveys[i].SurveyDate.After(surveys[j].SurveyDate)
	})
	return surveys, nil
}

// ListByCollection ดึงสมาชิกของ collection เรียงตาม areaIndex
// ถ้าเจอ record หายหรือ areaIndex เป็น nil จะสั่ง reindex ก่อนแล้วอ่านใหม่
// (lazy repair — ฝั่งอ่านไม่มีทางล้มเพราะข้อมูลไม่ consistent)
func (s *Service) ListByCollection(ctx context.Context, collectionID primitive.ObjectID) ([]models.AreaSurvey, error) {
	collection, err := s.collections.FindByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	members, err := s.surveys.FindByIDs(ctx, collection.Surveys)
	if err != nil {
		return nil, err
	}

	if membersNeedReindex(members, collectionID) {
		log.Printf("⚠️ inconsistency repaired: collection %s has members without areaIndex, reindexing", collectionID.Hex())
		if _, err := s.members.Reindex(ctx, collectionID); err != nil {
			return nil, err
		}
		members, err = s.surveys.FindByIDs(ctx, collection.Surveys)
		if err != nil {
			return nil, err
		}
	}

	sortByAreaIndex(members, collectionID)
	return members, nil
}

// Update แก้ไขฟิลด์ที่แก้ได้ของ survey (membership แตะไม่ได้จากทางนี้)
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, patch *models.AreaSurvey) (*models.AreaSurvey, error) {
	survey, err := s.surveys.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	survey.RefValue = patch.RefValue
	survey.StructureID = patch.StructureID
	if !patch.SurveyDate.IsZero() {
		survey.SurveyDate = patch.SurveyDate
	}
	survey.Structure = patch.Structure
	survey.Equipment = patch.Equipment
	survey.Canopies = patch.Canopies
	survey.Schematic = patch.Schematic
	survey.Ventilation = patch.Ventilation
	survey.Operations = patch.Operations
	survey.Notes = patch.Notes
	if patch.Images != nil {
		survey.Images = patch.Images
	}
	survey.Pricing = patch.Pricing
	survey.UpdatedAt = time.Now().UTC()

	if err := s.surveys.Replace(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// Delete ลบ survey และถอนออกจากทุก collection ที่เป็นสมาชิกอยู่
// (collection ที่ว่างแล้วจะถูกลบโดย Detach)
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	survey, err := s.surveys.FindByID(ctx, id)
	if err != nil {
		return err
	}

	for _, record := range survey.Collections {
		if _, err := s.members.Detach(ctx, record.CollectionID, id); err != nil {
			if errors.Is(err, ErrCollectionNotFound) {
				continue
			}
			log.Printf("⚠️ delete survey %s: detach from %s failed: %v", id.Hex(), record.CollectionID.Hex(), err)
		}
	}

	return s.surveys.Delete(ctx, id)
}

func membersNeedReindex(members []models.AreaSurvey, collectionID primitive.ObjectID) bool {
	for i := range members {
		record, ok := members[i].MembershipFor(collectionID)
		if !ok || record.AreaIndex == nil {
			return true
		}
	}
	return false
}

// sortByAreaIndex เรียงตาม areaIndex — record ที่ยังไม่มี index นับเป็น 0
// ลำดับระหว่างตัวที่ชนกันที่ 0 เป็น best-effort จนกว่า reindex จะทำงาน
func sortByAreaIndex(members []models.AreaSurvey, collectionID primitive.ObjectID) {
	indexOf := func(survey *models.AreaSurvey) int {
		if record, ok := survey.MembershipFor(collectionID); ok && record.AreaIndex != nil {
			return *record.AreaIndex
		}
		return 0
	}
	sort.SliceStable(members, func(i, j int) bool {
		return indexOf(&members[i]) < indexOf(&members[j])
	})
}
