package collections

import (
	"Backend-VentSurvey/src/models"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// in-memory store ที่ copy ตอนอ่าน (เลียนแบบ decode ของ mongo driver)
// แก้ struct ที่อ่านมาแล้วไม่กระทบ store จนกว่าจะ Replace
type memSurveyStore struct {
	surveys map[primitive.ObjectID]models.AreaSurvey
}

func newMemSurveyStore() *memSurveyStore {
	return &memSurveyStore{surveys: make(map[primitive.ObjectID]models.AreaSurvey)}
}

func copySurvey(s models.AreaSurvey) models.AreaSurvey {
	out := s
	out.Collections = make([]models.SurveyMembership, len(s.Collections))
	for i, m := range s.Collections {
		out.Collections[i] = m
		if m.AreaIndex != nil {
			v := *m.AreaIndex
			out.Collections[i].AreaIndex = &v
		}
	}
	return out
}

func (s *memSurveyStore) Insert(_ context.Context, survey *models.AreaSurvey) error {
	s.surveys[survey.ID] = copySurvey(*survey)
	return nil
}

func (s *memSurveyStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.AreaSurvey, error) {
	survey, ok := s.surveys[id]
	if !ok {
		return nil, ErrSurveyNotFound
	}
	out := copySurvey(survey)
	return &out, nil
}

func (s *memSurveyStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.AreaSurvey, error) {
	out := make([]models.AreaSurvey, 0, len(ids))
	for _, id := range ids {
		if survey, ok := s.surveys[id]; ok {
			out = append(out, copySurvey(survey))
		}
	}
	return out, nil
}

func (s *memSurveyStore) FindBySite(_ context.Context, siteID primitive.ObjectID) ([]models.AreaSurvey, error) {
	out := make([]models.AreaSurvey, 0)
	for _, survey := range s.surveys {
		if survey.SiteID == siteID {
			out = append(out, copySurvey(survey))
		}
	}
	return out, nil
}

func (s *memSurveyStore) Replace(_ context.Context, survey *models.AreaSurvey) error {
	s.surveys[survey.ID] = copySurvey(*survey)
	return nil
}

func (s *memSurveyStore) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(s.surveys, id)
	return nil
}

type memCollectionStore struct {
	collections map[primitive.ObjectID]models.SurveyCollection
}

func newMemCollectionStore() *memCollectionStore {
	return &memCollectionStore{collections: make(map[primitive.ObjectID]models.SurveyCollection)}
}

func copyCollection(c models.SurveyCollection) models.SurveyCollection {
	out := c
	out.Surveys = append([]primitive.ObjectID(nil), c.Surveys...)
	return out
}

func (s *memCollectionStore) Insert(_ context.Context, collection *models.SurveyCollection) error {
	s.collections[collection.ID] = copyCollection(*collection)
	return nil
}

func (s *memCollectionStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.SurveyCollection, error) {
	collection, ok := s.collections[id]
	if !ok {
		return nil, ErrCollectionNotFound
	}
	out := copyCollection(collection)
	return &out, nil
}

func (s *memCollectionStore) FindBySite(_ context.Context, siteID primitive.ObjectID) ([]models.SurveyCollection, error) {
	out := make([]models.SurveyCollection, 0)
	for _, collection := range s.collections {
		if collection.SiteID == siteID {
			out = append(out, copyCollection(collection))
		}
	}
	return out, nil
}

func (s *memCollectionStore) Replace(_ context.Context, collection *models.SurveyCollection) error {
	s.collections[collection.ID] = copyCollection(*collection)
	return nil
}

func (s *memCollectionStore) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(s.collections, id)
	return nil
}

// failingSurveyStore ทำให้ Replace ล้มเหลว — ใช้จำลอง partial write
type failingSurveyStore struct {
	*memSurveyStore
	failReplace bool
}

func (s *failingSurveyStore) Replace(ctx context.Context, survey *models.AreaSurvey) error {
	if s.failReplace {
		return errors.New("write concern error")
	}
	return s.memSurveyStore.Replace(ctx, survey)
}

func seedSurvey(t *testing.T, store SurveyStore, siteID primitive.ObjectID, createdAt time.Time) *models.AreaSurvey {
	t.Helper()
	survey := &models.AreaSurvey{
		ID:        primitive.NewObjectID(),
		SiteID:    siteID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, store.Insert(context.Background(), survey))
	return survey
}

func seedCollection(t *testing.T, store CollectionStore, siteID primitive.ObjectID, ref string) *models.SurveyCollection {
	t.Helper()
	now := time.Now().UTC()
	collection := &models.SurveyCollection{
		ID:            primitive.NewObjectID(),
		SiteID:        siteID,
		Name:          "Main Kitchen Visit",
		CollectionRef: ref,
		Surveys:       []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, store.Insert(context.Background(), collection))
	return collection
}

func TestAttach(t *testing.T) {
	ctx := context.Background()
	siteID := primitive.NewObjectID()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("AppendsToBothSides", func(t *testing.T) {
		surveyStore := newMemSurveyStore()
		collectionStore := newMemCollectionStore()
		service := NewService(surveyStore, collectionStore)

		collection := seedCollection(t, collectionStore, siteID, "Q-2026-0042")
		survey := seedSurvey(t, surveyStore, siteID, base)

		result, err := service.Attach(ctx, collection.ID, survey.ID, nil, false)
		require.NoError(t, err)

		assert.True(t, result.Contains(survey.ID))
		assert.Equal(t, 1, result.TotalAreas)

		stored, err := surveyStore.FindByID(ctx, survey.ID)
		require.NoError(t, err)
		record, ok := stored.MembershipFor(collection.ID)
		require.True(t, ok)
		require.NotNil(t, record.AreaIndex)
		assert.Equal(t, 0, *record.AreaIndex)
		assert.Equal(t, "Q-2026-0042", record.CollectionRef)
		assert.True(t, record.IsPrimary) // membership แรกเป็น primary อัตโนมัติ
	})

	t.Run("IsIdempotent", func(t *testing.T) {
		surveyStore := newMemSurveyStore()
		collectionStore := newMemCollectionStore()
		service := NewService(surveyStore, collectionStore)

		collection := seedCollection(t, collectionStore, siteID, "Q-2026-0042")
		survey := seedSurvey(t, surveyStore, siteID, base)

		_, err := service.Attach(ctx, collection.ID, survey.ID, nil, false)
		require.NoError(t, err)
		result, err := service.Attach(ctx, collection.ID, survey.ID, nil, false)
		require.NoError(t, err)

		assert.Len(t, result.Surveys, 1)
		assert.Equal(t, 1, result.TotalAreas)

		stored, _ := surveyStore.FindByID(ctx, survey.ID)
		assert.Len(t, stored.Collections, 1)
	})

	t.Run("SecondSurveyGetsNextIndex", func(t *testing.T) {
		surveyStore := newMemSurveyStore()
		collectionStore := newMemCollectionStore()
		service := NewService(surveyStore, collectionStore)

		collection := seedCollection(t, collectionStore, siteID, "Q-2026-0042")
		first := seedSurvey(t, surveyStore, siteID, base)
		second := seedSurvey(t, surveyStore, siteID, base.Add(time.Minute))

		_, err := service.Attach(ctx, collection.ID, first.ID, nil, false)
		require.NoError(t, err)
		_, err = service.Attach(ctx, collection.ID, second.ID, nil, false)
		require.NoError(t, err)

		stored, _ := surveyStore.FindByID(ctx, second.ID)
		record, ok := stored.MembershipFor(collection.ID)
		require.True(t, ok)
		assert.Equal(t, 1, *record.AreaIndex)
	})

	t.Run("HonoursRequestedIndex", func(t *testing.T) {
		surveyStore := newMemSurveyStore()
		collectionStore := newMemCollectionStore()
		service := NewService(surveyStore, collectionStore)

		collection := seedCollection(t, collectionStore, siteID, "Q-2026-0042")
		survey := seedSurvey(t, surveyStore, siteID, base)

		requested := 5
		_, err := service.Attach(ctx, collection.ID, survey.ID, &requested, false)
		require.NoError(t, err)

		stored, _ := surveyStore.FindByID(ctx, survey.ID)
		record, _ := stored.MembershipFor(collection.ID)
		assert.Equal(t, 5, *record.AreaIndex)
	})

	t.Run("MakePrimaryDemotesOthers", func(t *testing.T) {
		surveyStore := newMemSurveyStore()
		collectionStore := newMemCollectionStore()
		service := NewService(surveyStore, collectionStore)

		first := seedCollection(t, collectionStore, siteID, "Q-2026-0042")
		second := seedCollection(t, collectionStore, siteID, "Q-2026-0043")
		survey := seedSurvey(t, surveyStore, siteID, base)

		_, err := service.Attach(ctx, first.ID, survey.ID, nil, false)
		require.NoError(t, err)
		_, err = service.Attach(ctx, second.ID, survey.ID, nil, true)
		require.NoError(t, err)

		stored, _ := surveyStore.FindByID(ctx, survey.ID)
		require.Len(t, stored.Collections, 2)

		primaries := 0
		for _, record := range stored.Collections {
			if record.IsPrimary {
				primaries++
				assert.Equal(t, second.ID, record.CollectionID)
			}
		}
		assert.Equal(t, 1, primaries)
	})

	t.Run("UnknownCollection", func(t *testing.T) {
		surveyStore := newMemSurveyStore()
		collectionStore := newMemCollectionStore()
		service := NewService(surveyStore, collectionStore)

		survey := seedSurvey(t, surveyStore, siteID, base)

		_, err := service.Attach(ctx, primitive.NewObjectID(), survey.ID, nil, false)
		assert.ErrorIs(t, err, ErrCollectionNotFound)
	})

	t.Run("SurveyWriteFailureKeepsCollectionSide", func(t *testing.T) {
		inner := newMemSurveyStore()
		surveyStore := &failingSurveyStore{memSurveyStore: inner}
		collectionStore := newMemCollectionStore()
		service := NewService(surveyStore, collectionStore)

		collection := seedCollection(t, collectionStore, siteID, "Q-2026-0042")
		survey := seedSurvey(t, inner, siteID, base)

		surveyStore.failReplace = true
		result, err := service.Attach(ctx, collection.ID, survey.ID, nil, false)
		require.NoError(t, err) // partial write ไม่ทำให้ attach ล้ม
		assert.True(t, result.Contains(survey.ID))

		// ฝั่ง survey ยังไม่มี record — reindex ภายหลังต้อง backfill ให้
		stored, _ := inner.FindByID(ctx, survey.ID)
		_, ok := stored.MembershipFor(collection.ID)
		assert.False(t, ok)

		surveyStore.failReplace = false
		_, err = service.Reindex(ctx, collection.ID)
		require.NoError(t, err)

		stored, _ = inner.FindByID(ctx, survey.ID)
		record, ok := stored.MembershipFor(collection.ID)
		require.True(t, ok)
		assert.Equal(t, 0, *record.AreaIndex)
	})
}

func TestDetach(t *testing.T) {
	ctx := context.Background()
	siteID := primitive.NewObjectID()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	setup := func(t *testing.T, n int) (*Service, *memSurveyStore, *memCollectionStore, *models.SurveyCollection, []*models.AreaSurvey) {
		surveyStore := newMemSurveyStore()
		collectionStore := newMemCollectionStore()
		service := NewService(surveyStore, collectionStore)
		collection := seedCollection(t, collectionStore, siteID, "Q-2026-0042")

		surveys := make([]*models.AreaSurvey, 0, n)
		for i := 0; i < n; i++ {
			survey := seedSurvey(t, surveyStore, siteID, base.Add(time.Duration(i)*time.Minute))
			_, err := service.Attach(ctx, collection.ID, survey.ID, nil, false)
			require.NoError(t, err)
			surveys = append(surveys, survey)
		}
		return service, surveyStore, collectionStore, collection, surveys
	}

	t.Run("ClosesIndexGap", func(t *testing.T) {
		service, surveyStore, _, collection, surveys := setup(t, 3)

		// เอาตัวกลางออก — ตัวท้ายต้องเลื่อนลงมาเป็น index 1
		result, err := service.Detach(ctx, collection.ID, surveys[1].ID)
		require.NoError(t, err)
		require.False(t, result.Deleted)
		assert.Equal(t, 2, result.Collection.TotalAreas)

		for want, survey := range []*models.AreaSurvey{surveys[0], surveys[2]} {
			stored, err := surveyStore.FindByID(ctx, survey.ID)
			require.NoError(t, err)
			record, ok := stored.MembershipFor(collection.ID)
			require.True(t, ok)
			assert.Equal(t, want, *record.AreaIndex)
		}

		// ตัวที่หลุดออกไปต้องไม่มี record ค้าง
		detached, _ := surveyStore.FindByID(ctx, surveys[1].ID)
		_, ok := detached.MembershipFor(collection.ID)
		assert.False(t, ok)
	})

	t.Run("LastMemberDeletesCollection", func(t *testing.T) {
		service, _, collectionStore, collection, surveys := setup(t, 1)

		result, err := service.Detach(ctx, collection.ID, surveys[0].ID)
		require.NoError(t, err)
		assert.True(t, result.Deleted)
		assert.Nil(t, result.Collection)

		_, err = collectionStore.FindByID(ctx, collection.ID)
		assert.ErrorIs(t, err, ErrCollectionNotFound)
	})

	t.Run("UnknownCollection", func(t *testing.T) {
		service, _, _, _, surveys := setup(t, 1)
		_, err := service.Detach(ctx, primitive.NewObjectID(), surveys[0].ID)
		assert.ErrorIs(t, err, ErrCollectionNotFound)
	})

	t.Run("SurveyAlreadyGone", func(t *testing.T) {
		service, surveyStore, _, collection, surveys := setup(t, 2)

		// survey โดนลบตรงๆ จาก store (เช่นสคริปต์ migration) — detach ยังต้องสำเร็จ
		require.NoError(t, surveyStore.Delete(ctx, surveys[0].ID))

		result, err := service.Detach(ctx, collection.ID, surveys[0].ID)
		require.NoError(t, err)
		assert.False(t, result.Deleted)
		assert.Equal(t, 1, result.Collection.TotalAreas)
	})
}

func TestReindex(t *testing.T) {
	ctx := context.Background()
	siteID := primitive.NewObjectID()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("OrdersByCreationTime", func(t *testing.T) {
		surveyStore := newMemSurveyStore()
		collectionStore := newMemCollectionStore()
		service := NewService(surveyStore, collectionStore)

		collection := seedCollection(t, collectionStore, siteID, "Q-2026-0042")
		older := seedSurvey(t, surveyStore, siteID, base)
		newer := seedSurvey(t, surveyStore, siteID, base.Add(time.Hour))

		// ใส่สลับลำดับ — สร้างทีหลังแต่ attach ก่อน
		_, err := service.Attach(ctx, collection.ID, newer.ID, nil, false)
		require.NoError(t, err)
		_, err = service.Attach(ctx, collection.ID, older.ID, nil, false)
		require.NoError(t, err)

		_, err = service.Reindex(ctx, collection.ID)
		require.NoError(t, err)

		storedOlder, _ := surveyStore.FindByID(ctx, older.ID)
		recordOlder, _ := storedOlder.MembershipFor(collection.ID)
		assert.Equal(t, 0, *recordOlder.AreaIndex)

		storedNewer, _ := surveyStore.FindByID(ctx, newer.ID)
		recordNewer, _ := storedNewer.MembershipFor(collection.ID)
		assert.Equal(t, 1, *recordNewer.AreaIndex)
	})

	t.Run("BackfillsMissingRecord", func(t *testing.T) {
		surveyStore := newMemSurveyStore()
		collectionStore := newMemCollectionStore()
		service := NewService(surveyStore, collectionStore)

		collection := seedCollection(t, collectionStore, siteID, "Q-2026-0042")
		survey := seedSurvey(t, surveyStore, siteID, base)

		// จำลองสภาพครึ่งทาง: collection ชี้ถึง survey แต่ survey ไม่รู้จัก collection
		collection.Surveys = []primitive.ObjectID{survey.ID}
		collection.TotalAreas = 1
		require.NoError(t, collectionStore.Replace(ctx, collection))

		_, err := service.Reindex(ctx, collection.ID)
		require.NoError(t, err)

		stored, _ := surveyStore.FindByID(ctx, survey.ID)
		record, ok := stored.MembershipFor(collection.ID)
		require.True(t, ok)
		assert.Equal(t, 0, *record.AreaIndex)
		assert.Equal(t, "Q-2026-0042", record.CollectionRef)
		assert.True(t, record.IsPrimary)
	})

	t.Run("BackfillDoesNotStealPrimary", func(t *testing.T) {
		surveyStore := newMemSurveyStore()
		collectionStore := newMemCollectionStore()
		service := NewService(surveyStore, collectionStore)

		other := seedCollection(t, collectionStore, siteID, "Q-2026-0001")
		collection := seedCollection(t, collectionStore, siteID, "Q-2026-0042")
		survey := seedSurvey(t, surveyStore, siteID, base)

		_, err := service.Attach(ctx, other.ID, survey.ID, nil, true)
		require.NoError(t, err)

		collection.Surveys = []primitive.ObjectID{survey.ID}
		collection.TotalAreas = 1
		require.NoError(t, collectionStore.Replace(ctx, collection))

		_, err = service.Reindex(ctx, collection.ID)
		require.NoError(t, err)

		stored, _ := surveyStore.FindByID(ctx, survey.ID)
		record, ok := stored.MembershipFor(collection.ID)
		require.True(t, ok)
		assert.False(t, record.IsPrimary) // primary เดิมอยู่กับ collection แรก

		original, _ := stored.MembershipFor(other.ID)
		assert.True(t, original.IsPrimary)
	})

	t.Run("RepairsNilIndexes", func(t *testing.T) {
		surveyStore := newMemSurveyStore()
		collectionStore := newMemCollectionStore()
		service := NewService(surveyStore, collectionStore)

		collection := seedCollection(t, collectionStore, siteID, "Q-2026-0042")
		survey := seedSurvey(t, surveyStore, siteID, base)

		_, err := service.Attach(ctx, collection.ID, survey.ID, nil, false)
		require.NoError(t, err)

		// ล้าง areaIndex ทิ้ง (สภาพข้อมูลจากเวอร์ชันเก่า)
		stored, _ := surveyStore.FindByID(ctx, survey.ID)
		stored.Collections[0].AreaIndex = nil
		require.NoError(t, surveyStore.Replace(ctx, stored))

		_, err = service.Reindex(ctx, collection.ID)
		require.NoError(t, err)

		stored, _ = surveyStore.FindByID(ctx, survey.ID)
		record, _ := stored.MembershipFor(collection.ID)
		require.NotNil(t, record.AreaIndex)
		assert.Equal(t, 0, *record.AreaIndex)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	siteID := primitive.NewObjectID()

	t.Run("RepairsTotalAreas", func(t *testing.T) {
		surveyStore := newMemSurveyStore()
		collectionStore := newMemCollectionStore()
		service := NewService(surveyStore, collectionStore)

		collection := seedCollection(t, collectionStore, siteID, "Q-2026-0042")
		collection.Surveys = []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
		collection.TotalAreas = 5 // ค่าเพี้ยน
		require.NoError(t, collectionStore.Replace(ctx, collection))

		got, err := service.Get(ctx, collection.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.TotalAreas)

		// ค่าที่ซ่อมแล้วต้องถูกเขียนกลับ
		stored, _ := collectionStore.FindByID(ctx, collection.ID)
		assert.Equal(t, 2, stored.TotalAreas)
	})

	t.Run("NotFound", func(t *testing.T) {
		service := NewService(newMemSurveyStore(), newMemCollectionStore())
		_, err := service.Get(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrCollectionNotFound)
	})
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	siteID := primitive.NewObjectID()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("PropagatesRefToMembers", func(t *testing.T) {
		surveyStore := newMemSurveyStore()
		collectionStore := newMemCollectionStore()
		service := NewService(surveyStore, collectionStore)

		collection := seedCollection(t, collectionStore, siteID, models.PendingRef)
		first := seedSurvey(t, surveyStore, siteID, base)
		second := seedSurvey(t, surveyStore, siteID, base.Add(time.Minute))
		for _, survey := range []*models.AreaSurvey{first, second} {
			_, err := service.Attach(ctx, collection.ID, survey.ID, nil, false)
			require.NoError(t, err)
		}

		ref := "Q-2026-0099"
		updated, err := service.Rename(ctx, collection.ID, RenameFields{CollectionRef: &ref})
		require.NoError(t, err)
		assert.Equal(t, ref, updated.CollectionRef)

		for _, survey := range []*models.AreaSurvey{first, second} {
			stored, _ := surveyStore.FindByID(ctx, survey.ID)
			record, _ := stored.MembershipFor(collection.ID)
			assert.Equal(t, ref, record.CollectionRef)
		}
	})

	t.Run("NameOnlyDoesNotTouchMembers", func(t *testing.T) {
		surveyStore := newMemSurveyStore()
		collectionStore := newMemCollectionStore()
		service := NewService(surveyStore, collectionStore)

		collection := seedCollection(t, collectionStore, siteID, "Q-2026-0042")
		survey := seedSurvey(t, surveyStore, siteID, base)
		_, err := service.Attach(ctx, collection.ID, survey.ID, nil, false)
		require.NoError(t, err)

		before, _ := surveyStore.FindByID(ctx, survey.ID)

		name := "Rear Kitchen Visit"
		updated, err := service.Rename(ctx, collection.ID, RenameFields{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, updated.Name)
		assert.Equal(t, "Q-2026-0042", updated.CollectionRef)

		after, _ := surveyStore.FindByID(ctx, survey.ID)
		assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	})
}
