package appointments

import (
	"context"
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

type AppointmentMongoRepository struct {
	Collection *mongo.Collection
}

func NewAppointmentMongoRepository(db *mongo.Client, dbName string) contracts.AppointmentRepository {
	return &AppointmentMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionAppointments),
	}
}

func (r *AppointmentMongoRepository) Create(ctx context.Context, appointment *models.Appointment) (string, error) {
	doc := bson.M{
		"userId":      appointment.UserID,
		"docId":       appointment.DoctorID,
		"userData":    appointment.UserData,
		"docData":     appointment.DoctorData,
		"slotDate":    appointment.SlotDate,
		"slotTime":    appointment.SlotTime,
		"amount":      appointment.Amount,
		"date":        appointment.Date,
		"cancelled":   appointment.Cancelled,
		"isCompleted": appointment.IsCompleted,
		"payment":     appointment.Payment,
	}
	result, err := r.Collection.InsertOne(ctx, doc)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *AppointmentMongoRepository) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	var appointment models.Appointment
	objectID, err := primitive.ObjectIDFromHex(appointmentID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&appointment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &appointment, nil
}

func (r *AppointmentMongoRepository) UpdateFields(ctx context.Context, appointmentID string, fields map[string]interface{}) error {
	objectID, err := primitive.ObjectIDFromHex(appointmentID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	setFields := bson.M{}
	for key, value := range fields {
		setFields[key] = value
	}
	setFields["updatedAt"] = time.Now()

	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": setFields})
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrAppointmentNotFound(mongo.ErrNoDocuments)
	}
	return nil
}

func (r *AppointmentMongoRepository) MarkPaid(ctx context.Context, appointmentID, paymentID string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(appointmentID)
	if err != nil {
		return false, exceptions.ErrMongoDBNotObjectID(err)
	}

	// Same compare-and-set discipline as the doctor slot claim: the filter
	// only matches a still-payable document, so a racing callback cannot
	// overwrite the first writer's paymentId and paymentDate.
	filter := bson.M{"_id": objectID, "payment": false, "cancelled": false}
	update := bson.M{"$set": bson.M{
		"payment":     true,
		"paymentId":   paymentID,
		"paymentDate": time.Now(),
		"updatedAt":   time.Now(),
	}}
	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount > 0, nil
}

func (r *AppointmentMongoRepository) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *AppointmentMongoRepository) ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"docId": doctorID})
}

func (r *AppointmentMongoRepository) list(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	findOptions := options.Find().SetSort(bson.M{"date": -1})
	cursor, err := r.Collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var appointments []models.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return appointments, nil
}
