package doctors

import (
	"context"
	"errors"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DoctorMongoRepository struct {
	Collection *mongo.Collection
}

func NewDoctorMongoRepository(db *mongo.Client, dbName string) contracts.DoctorRepository {
	return &DoctorMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionDoctors),
	}
}

func (r *DoctorMongoRepository) FindByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	var doctor models.Doctor
	objectID, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doctor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &doctor, nil
}

func (r *DoctorMongoRepository) FindAll(ctx context.Context) ([]models.Doctor, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var doctors []models.Doctor
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return doctors, nil
}

func (r *DoctorMongoRepository) UpdateAvailability(ctx context.Context, doctorID string, available bool) error {
	objectID, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}
	update := bson.M{"$set": bson.M{"available": available, "updatedAt": time.Now()}}
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrDoctorNotFound(mongo.ErrNoDocuments)
	}
	return nil
}

// ClaimSlot is a compare-and-set: the update only matches while slot_version
// still holds the value read here, so two concurrent claims for the same pair
// cannot both push. The losing writer gets a claim-conflict error and the
// caller decides whether to retry.
func (r *DoctorMongoRepository) ClaimSlot(ctx context.Context, doctorID, dateKey, timeSlot string) error {
	objectID, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	var doctor models.Doctor
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doctor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return exceptions.ErrDoctorNotFound(err)
		}
		return exceptions.ErrMongoDBFindDocument(err)
	}

	if doctor.IsSlotBooked(dateKey, timeSlot) {
		return exceptions.ErrSlotTaken(errors.New("slot already occupied"))
	}

	filter := bson.M{"_id": objectID, "slot_version": doctor.SlotVersion}
	update := bson.M{
		"$push": bson.M{"slots_booked." + dateKey: timeSlot},
		"$inc":  bson.M{"slot_version": 1},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrSlotClaimConflict(errors.New("slot version changed between read and write"))
	}
	return nil
}

func (r *DoctorMongoRepository) FreeSlot(ctx context.Context, doctorID, dateKey, timeSlot string) error {
	objectID, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	slotField := "slots_booked." + dateKey
	update := bson.M{
		"$pull": bson.M{slotField: timeSlot},
		"$inc":  bson.M{"slot_version": 1},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrDoctorNotFound(mongo.ErrNoDocuments)
	}

	// Drop the date key once its last slot is freed so stale empty dates do
	// not accumulate on the document.
	cleanupFilter := bson.M{"_id": objectID, slotField: bson.M{"$size": 0}}
	cleanupUpdate := bson.M{"$unset": bson.M{slotField: ""}}
	_, err = r.Collection.UpdateOne(ctx, cleanupFilter, cleanupUpdate)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
