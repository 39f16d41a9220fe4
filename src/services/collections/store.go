package collections

import (
	"Backend-VentSurvey/src/models"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrSurveyNotFound     = errors.New("survey not found")
	ErrCollectionNotFound = errors.New("collection not found")
)

// SurveyStore persistence ของเอกสาร AreaSurvey
// แยกเป็น interface เพื่อให้ membership engine ทดสอบกับ in-memory store ได้
type SurveyStore interface {
	Insert(ctx context.Context, survey *models.AreaSurvey) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AreaSurvey, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.AreaSurvey, error)
	FindBySite(ctx context.Context, siteID primitive.ObjectID) ([]models.AreaSurvey, error)
	Replace(ctx context.Context, survey *models.AreaSurvey) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CollectionStore persistence ของเอกสาร SurveyCollection
type CollectionStore interface {
	Insert(ctx context.Context, collection *models.SurveyCollection) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.SurveyCollection, error)
	FindBySite(ctx context.Context, siteID primitive.ObjectID) ([]models.SurveyCollection, error)
	Replace(ctx context.Context, collection *models.SurveyCollection) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MongoSurveyStore implements SurveyStore บน MongoDB
type MongoSurveyStore struct {
	coll *mongo.Collection
}

func NewMongoSurveyStore(coll *mongo.Collection) *MongoSurveyStore {
	return &MongoSurveyStore{coll: coll}
}

func (s *MongoSurveyStore) Insert(ctx context.Context, survey *models.AreaSurvey) error {
	_, err := s.coll.InsertOne(ctx, survey)
	return err
}

func (s *MongoSurveyStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AreaSurvey, error) {
	var survey models.AreaSurvey
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&survey)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}
	return &survey, nil
}

func (s *MongoSurveyStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.AreaSurvey, error) {
	if len(ids) == 0 {
		return []models.AreaSurvey{}, nil
	}
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	surveys := make([]models.AreaSurvey, 0, len(ids))
	for cursor.Next(ctx) {
		var survey models.AreaSurvey
		if err := cursor.Decode(&survey); err != nil {
			return nil, err
		}
		surveys = append(surveys, survey)
	}
	return surveys, cursor.Err()
}

func (s *MongoSurveyStore) FindBySite(ctx context.Context, siteID primitive.ObjectID) ([]models.AreaSurvey, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"siteId": siteID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	surveys := make([]models.AreaSurvey, 0)
	for cursor.Next(ctx) {
		var survey models.AreaSurvey
		if err := cursor.Decode(&survey); err != nil {
			return nil, err
		}
		surveys = append(surveys, survey)
	}
	return surveys, cursor.Err()
}

func (s *MongoSurveyStore) Replace(ctx context.Context, survey *models.AreaSurvey) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": survey.ID}, survey)
	return err
}

func (s *MongoSurveyStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// MongoCollectionStore implements CollectionStore บน MongoDB
type MongoCollectionStore struct {
	coll *mongo.Collection
}

func NewMongoCollectionStore(coll *mongo.Collection) *MongoCollectionStore {
	return &MongoCollectionStore{coll: coll}
}

func (s *MongoCollectionStore) Insert(ctx context.Context, collection *models.SurveyCollection) error {
	_, err := s.coll.InsertOne(ctx, collection)
	return err
}

func (s *MongoCollectionStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.SurveyCollection, error) {
	var collection models.SurveyCollection
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&collection)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	return &collection, nil
}

func (s *MongoCollectionStore) FindBySite(ctx context.Context, siteID primitive.ObjectID) ([]models.SurveyCollection, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"siteId": siteID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]models.SurveyCollection, 0)
	for cursor.Next(ctx) {
		var collection models.SurveyCollection
		if err := cursor.Decode(&collection); err != nil {
			return nil, err
		}
		result = append(result, collection)
	}
	return result, cursor.Err()
}

func (s *MongoCollectionStore) Replace(ctx context.Context, collection *models.SurveyCollection) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": collection.ID}, collection)
	return err
}

func (s *MongoCollectionStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
