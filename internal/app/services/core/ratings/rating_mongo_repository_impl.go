package ratings

import (
	"context"
	"log"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RatingMongoRepository struct {
	Collection *mongo.Collection
}

func NewRatingMongoRepository(db *mongo.Client, dbName string) contracts.RatingRepository {
	collection := db.Database(dbName).Collection(constvars.MongoCollectionRatings)

	// One rating per (doctor, rater). Insert races resolve at the index.
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "doctorId", Value: 1}, {Key: "raterRef", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, err := collection.Indexes().CreateOne(context.TODO(), indexModel)
	if err != nil {
		log.Printf("Failed to ensure ratings unique index: %s", err.Error())
	}

	return &RatingMongoRepository{Collection: collection}
}

func (r *RatingMongoRepository) Insert(ctx context.Context, rating *models.Rating) (string, error) {
	now := time.Now()
	doc := bson.M{
		"doctorId":  rating.DoctorID,
		"raterRef":  rating.RaterRef,
		"raterKind": rating.RaterKind,
		"raterId":   rating.RaterID,
		"score":     rating.Score,
		"comment":   rating.Comment,
		"createdAt": now,
		"updatedAt": now,
	}
	result, err := r.Collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", contracts.ErrDuplicateRating
		}
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *RatingMongoRepository) FindByDoctorAndRater(ctx context.Context, doctorID, raterRef string) (*models.Rating, error) {
	var rating models.Rating
	filter := bson.M{"doctorId": doctorID, "raterRef": raterRef}
	err := r.Collection.FindOne(ctx, filter).Decode(&rating)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &rating, nil
}

func (r *RatingMongoRepository) UpdateScoreAndComment(ctx context.Context, ratingID string, score int, comment string) error {
	objectID, err := primitive.ObjectIDFromHex(ratingID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}
	update := bson.M{"$set": bson.M{
		"score":     score,
		"comment":   comment,
		"updatedAt": time.Now(),
	}}
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrMongoDBUpdateDocument(mongo.ErrNoDocuments)
	}
	return nil
}

func (r *RatingMongoRepository) ListByDoctor(ctx context.Context, doctorID string) ([]models.Rating, error) {
	findOptions := options.Find().SetSort(bson.M{"updatedAt": -1})
	cursor, err := r.Collection.Find(ctx, bson.M{"doctorId": doctorID}, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var ratings []models.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return ratings, nil
}
