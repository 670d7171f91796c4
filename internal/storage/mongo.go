package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sagehill-community/activities-backend/internal/models"
)

const activitiesCollection = "activities"

// MongoActivityStore persists activities in a MongoDB collection.
type MongoActivityStore struct {
	col *mongo.Collection
}

func NewMongoActivityStore(db *mongo.Database) *MongoActivityStore {
	return &MongoActivityStore{col: db.Collection(activitiesCollection)}
}

// EnsureIndexes configures indexes for the activities collection. Called on
// startup from main after Mongo has connected. The TTL index on expire_at
// removes stale activities a day after they occur; the application itself
// never checks expire_at.
func (s *MongoActivityStore) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_status_created"),
		},
		{
			Keys:    bson.D{{Key: "expire_at", Value: 1}},
			Options: options.Index().SetName("idx_expire_at").SetExpireAfterSeconds(0),
		},
	}

	for _, m := range indexModels {
		if _, err := s.col.Indexes().CreateOne(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *MongoActivityStore) Find(ctx context.Context, filter Filter) ([]models.Activity, error) {
	query := bson.M{}
	if len(filter.Statuses) > 0 {
		query["status"] = bson.M{"$in": filter.Statuses}
	}
	if filter.CreatorUserID != "" {
		query["creator_user_id"] = filter.CreatorUserID
	}

	findOptions := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := s.col.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (s *MongoActivityStore) FindByID(ctx context.Context, id string) (*models.Activity, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil // malformed ids behave like missing documents
	}

	var activity models.Activity
	err = s.col.FindOne(ctx, bson.M{"_id": objectID}).Decode(&activity)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (s *MongoActivityStore) Create(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	if activity.ID.IsZero() {
		activity.ID = primitive.NewObjectID()
	}
	now := time.Now()
	activity.CreatedAt = now
	activity.UpdatedAt = now
	if activity.RSVPs == nil {
		activity.RSVPs = []models.RSVP{}
	}

	if _, err := s.col.InsertOne(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *MongoActivityStore) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*models.Activity, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Activity
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *MongoActivityStore) PushRSVP(ctx context.Context, id string, entry models.RSVP) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	_, err = s.col.UpdateByID(ctx, objectID, bson.M{
		"$push": bson.M{"rsvps": entry},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	return err
}

func (s *MongoActivityStore) PullRSVP(ctx context.Context, id string, email string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	_, err = s.col.UpdateByID(ctx, objectID, bson.M{
		"$pull": bson.M{"rsvps": bson.M{"email": email}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	return err
}

func (s *MongoActivityStore) DeleteByID(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = s.col.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}
