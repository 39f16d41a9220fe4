package collections

import (
	"Backend-VentSurvey/src/database"
	"Backend-VentSurvey/src/models"
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service ดูแลความสัมพันธ์สองทางระหว่าง SurveyCollection กับ AreaSurvey
//
// สองเอกสารอยู่คนละ collection และไม่มี transaction คร่อมกัน การเขียนจึงเป็น
// best-effort: ฝั่งที่เขียนไม่สำเร็จจะถูก log ไว้ แล้วปล่อยให้ lazy reindex
// ตอนอ่านซ่อมให้เอง (ดู Reindex / ListByCollection ฝั่ง surveys)
// attach พร้อมกันจากหลาย request ยังแข่งกันได้ — verification pass ช่วยเก็บ
// เคส lost update ได้บางส่วนเท่านั้น ไม่ใช่ atomic
type Service struct {
	surveys     SurveyStore
	collections CollectionStore
}

func NewService(surveys SurveyStore, collections CollectionStore) *Service {
	return &Service{surveys: surveys, collections: collections}
}

var (
	defaultService *Service
	defaultOnce    sync.Once
)

// Default คืน service ที่ผูกกับ MongoDB (สร้างครั้งเดียว)
func Default() *Service {
	defaultOnce.Do(func() {
		if err := database.ConnectMongoDB(); err != nil {
			log.Fatal("MongoDB connection error:", err)
		}
		defaultService = NewService(
			NewMongoSurveyStore(database.SurveyCollection),
			NewMongoCollectionStore(database.SurveyCollectionCollection),
		)
	})
	return defaultService
}

// Get ดึง collection ตาม id และซ่อม totalAreas ถ้าไม่ตรงกับ len(surveys)
func (s *Service) Get(ctx context.Context, collectionID primitive.ObjectID) (*models.SurveyCollection, error) {
	collection, err := s.collections.FindByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	if collection.TotalAreas != len(collection.Surveys) {
		log.Printf("⚠️ collection %s: totalAreas %d != %d surveys, repairing", collectionID.Hex(), collection.TotalAreas, len(collection.Surveys))
		collection.TotalAreas = len(collection.Surveys)
		collection.UpdatedAt = time.Now().UTC()
		if err := s.collections.Replace(ctx, collection); err != nil {
			// อ่านต้องไม่ล้มเพราะซ่อมไม่สำเร็จ
			log.Println("⚠️ failed to persist totalAreas repair:", err)
		}
	}
	return collection, nil
}

// Attach เพิ่ม survey เข้า collection (idempotent ฝั่งโครงสร้าง)
// requestedIndex เป็นแค่คำแนะนำ — reindex ครั้งถัดไปจะจัดเรียงตาม createdAt เสมอ
func (s *Service) Attach(ctx context.Context, collectionID, surveyID primitive.ObjectID, requestedIndex *int, makePrimary bool) (*models.SurveyCollection, error) {
	collection, err := s.collections.FindByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	survey, err := s.surveys.FindByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	// 1) ฝั่งโครงสร้าง: เพิ่ม id เข้า surveys ถ้ายังไม่มี
	if !collection.Contains(surveyID) {
		collection.Surveys = append(collection.Surveys, surveyID)
		collection.TotalAreas = len(collection.Surveys)
		collection.UpdatedAt = time.Now().UTC()
		if err := s.collections.Replace(ctx, collection); err != nil {
			return nil, err
		}
	}

	// 2) หา areaIndex: ใช้ค่าที่ขอมา ไม่งั้นใช้ตำแหน่งท้ายสุด ณ ตอน append
	areaIndex := len(collection.Surveys) - 1
	if requestedIndex != nil {
		areaIndex = *requestedIndex
	}

	// 3) ฝั่ง survey: update record เดิม หรือ append record ใหม่
	if record, ok := survey.MembershipFor(collectionID); ok {
		record.AreaIndex = &areaIndex
		record.CollectionRef = collection.CollectionRef
		if makePrimary {
			record.IsPrimary = true
		}
	} else {
		survey.Collections = append(survey.Collections, models.SurveyMembership{
			CollectionID:  collectionID,
			AreaIndex:     &areaIndex,
			CollectionRef: collection.CollectionRef,
			IsPrimary:     makePrimary || len(survey.Collections) == 0,
		})
	}

	// primary ได้แค่รายการเดียวต่อ survey
	if makePrimary {
		for i := range survey.Collections {
			survey.Collections[i].IsPrimary = survey.Collections[i].CollectionID == collectionID
		}
	}

	survey.UpdatedAt = time.Now().UTC()
	if err := s.surveys.Replace(ctx, survey); err != nil {
		// collection เขียนไปแล้ว — ไม่ rollback, ปล่อยให้ reindex ซ่อมตอนอ่าน
		log.Printf("⚠️ partial write: attach %s -> %s persisted collection but not survey: %v", surveyID.Hex(), collectionID.Hex(), err)
	}

	// 4) verification pass: อ่านซ้ำ เผื่อ update หาย (เช่นโดน request อื่นเขียนทับ)
	refreshed, err := s.collections.FindByID(ctx, collectionID)
	if err != nil {
		return collection, nil
	}
	if !refreshed.Contains(surveyID) {
		refreshed.Surveys = append(refreshed.Surveys, surveyID)
		refreshed.TotalAreas = len(refreshed.Surveys)
		refreshed.UpdatedAt = time.Now().UTC()
		if err := s.collections.Replace(ctx, refreshed); err != nil {
			log.Printf("⚠️ verification re-append failed for %s: %v", collectionID.Hex(), err)
		}
	}
	return refreshed, nil
}

// DetachResult ผลการเอา survey ออกจาก collection
type DetachResult struct {
	Deleted    bool                     `json:"deleted"`
	Collection *models.SurveyCollection `json:"collection,omitempty"`
}

// Detach เอา survey ออกจาก collection; ถ้า collection ว่างจะถูกลบทิ้ง (I4)
// ถ้ายังเหลือสมาชิก จะ reindex ปิดช่องว่างให้ทันที
func (s *Service) Detach(ctx context.Context, collectionID, surveyID primitive.ObjectID) (*DetachResult, error) {
	collection, err := s.collections.FindByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	// เก็บ index เดิมไว้ดู log เวลาไล่ปัญหา
	if survey, err := s.surveys.FindByID(ctx, surveyID); err == nil {
		if record, ok := survey.MembershipFor(collectionID); ok && record.AreaIndex != nil {
			log.Printf("detach: survey %s leaving collection %s from areaIndex %d", surveyID.Hex(), collectionID.Hex(), *record.AreaIndex)
		}
	}

	remaining := make([]primitive.ObjectID, 0, len(collection.Surveys))
	for _, id := range collection.Surveys {
		if id != surveyID {
			remaining = append(remaining, id)
		}
	}
	collection.Surveys = remaining
	collection.TotalAreas = len(remaining)
	collection.UpdatedAt = time.Now().UTC()
	if err := s.collections.Replace(ctx, collection); err != nil {
		return nil, err
	}

	// ตัด membership record ออกจากฝั่ง survey (ถ้า survey ยังอยู่)
	if survey, err := s.surveys.FindByID(ctx, surveyID); err == nil {
		kept := make([]models.SurveyMembership, 0, len(survey.Collections))
		for _, record := range survey.Collections {
			if record.CollectionID != collectionID {
				kept = append(kept, record)
			}
		}
		survey.Collections = kept
		survey.UpdatedAt = time.Now().UTC()
		if err := s.surveys.Replace(ctx, survey); err != nil {
			log.Printf("⚠️ partial write: detach %s from %s persisted collection but not survey: %v", surveyID.Hex(), collectionID.Hex(), err)
		}
	}

	if len(collection.Surveys) == 0 {
		if err := s.collections.Delete(ctx, collectionID); err != nil {
			return nil, err
		}
		return &DetachResult{Deleted: true}, nil
	}

	reindexed, err := s.Reindex(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	return &DetachResult{Deleted: false, Collection: reindexed}, nil
}

// Reindex คืน invariant ของ areaIndex: สมาชิกทุกตัวได้ index ติดกัน 0..n-1
// เรียงตาม createdAt (ลำดับการสร้างคือลำดับพื้นที่ — ไม่มี reorder ด้วยมือ)
// พร้อม backfill record ที่หายและ propagate collectionRef
func (s *Service) Reindex(ctx context.Context, collectionID primitive.ObjectID) (*models.SurveyCollection, error) {
	collection, err := s.collections.FindByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	members, err := s.surveys.FindByIDs(ctx, collection.Surveys)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(members, func(i, j int) bool {
		return members[i].CreatedAt.Before(members[j].CreatedAt)
	})

	for i := range members {
		survey := &members[i]
		index := i

		if record, ok := survey.MembershipFor(collectionID); ok {
			record.AreaIndex = &index
			if collection.CollectionRef != "" && record.CollectionRef != collection.CollectionRef {
				record.CollectionRef = collection.CollectionRef
			}
		} else {
			log.Printf("⚠️ inconsistency repaired: survey %s missing membership record for %s, backfilling at %d", survey.ID.Hex(), collectionID.Hex(), index)
			survey.Collections = append(survey.Collections, models.SurveyMembership{
				CollectionID:  collectionID,
				AreaIndex:     &index,
				CollectionRef: collection.CollectionRef,
				IsPrimary:     index == 0 && !survey.HasPrimary(),
			})
		}

		survey.UpdatedAt = time.Now().UTC()
		if err := s.surveys.Replace(ctx, survey); err != nil {
			log.Printf("⚠️ reindex: failed to persist survey %s: %v", survey.ID.Hex(), err)
		}
	}

	collection.TotalAreas = len(collection.Surveys)
	collection.UpdatedAt = time.Now().UTC()
	if err := s.collections.Replace(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// RenameFields ฟิลด์ที่แก้ได้ของ collection
type RenameFields struct {
	Name          *string `json:"name"`
	CollectionRef *string `json:"collectionRef"`
}

// Rename แก้ name/collectionRef; ถ้า ref เปลี่ยน จะไล่เขียน record ของสมาชิก
// ทีละตัว (ไม่มี rollback ถ้าพังกลางทาง — fire and forget with logging)
func (s *Service) Rename(ctx context.Context, collectionID primitive.ObjectID, fields RenameFields) (*models.SurveyCollection, error) {
	collection, err := s.collections.FindByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	if fields.Name != nil {
		collection.Name = *fields.Name
	}

	refChanged := fields.CollectionRef != nil && *fields.CollectionRef != collection.CollectionRef
	if refChanged {
		collection.CollectionRef = *fields.CollectionRef

		members, err := s.surveys.FindByIDs(ctx, collection.Surveys)
		if err != nil {
			return nil, err
		}
		for i := range members {
			survey := &members[i]
			record, ok := survey.MembershipFor(collectionID)
			if !ok {
				continue
			}
			record.CollectionRef = collection.CollectionRef
			survey.UpdatedAt = time.Now().UTC()
			if err := s.surveys.Replace(ctx, survey); err != nil {
				log.Printf("⚠️ rename: failed to propagate collectionRef to survey %s: %v", survey.ID.Hex(), err)
			}
		}
	}

	collection.UpdatedAt = time.Now().UTC()
	if err := s.collections.Replace(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}
