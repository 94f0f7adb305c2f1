package slots

import (
	"context"
	"time"

	"healthfirst-service/internal/app/contracts"
	"healthfirst-service/internal/app/models"
	"healthfirst-service/internal/pkg/constvars"
	"healthfirst-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SlotMongoRepository struct {
	Collection *mongo.Collection
}

func NewSlotMongoRepository(db *mongo.Client, dbName string) contracts.SlotRepository {
	return &SlotMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionSlots),
	}
}

func (repo *SlotMongoRepository) InsertMany(ctx context.Context, slots []models.Slot) error {
	documents := make([]interface{}, 0, len(slots))
	for i := range slots {
		documents = append(documents, slots[i])
	}
	_, err := repo.Collection.InsertMany(ctx, documents)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *SlotMongoRepository) FindByID(ctx context.Context, slotID string) (*models.Slot, error) {
	objectID, err := primitive.ObjectIDFromHex(slotID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	var slot models.Slot
	err = repo.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &slot, nil
}

func (repo *SlotMongoRepository) Search(ctx context.Context, criteria contracts.SlotSearchCriteria) ([]models.Slot, error) {
	filter := bson.M{}
	if criteria.ProviderID != "" {
		filter["providerId"] = criteria.ProviderID
	}
	if criteria.Date != "" {
		filter["date"] = criteria.Date
	}
	if criteria.Status != "" {
		filter["status"] = criteria.Status
	}
	if criteria.AppointmentType != "" {
		filter["appointmentType"] = criteria.AppointmentType
	}

	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cursor, err := repo.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return slots, nil
}

// Book flips an available slot to booked in one FindOneAndUpdate so two
// concurrent bookings can never both win: the filter includes the current
// status, and the loser sees no matching document.
func (repo *SlotMongoRepository) Book(ctx context.Context, slotID, patientID, bookingReference string) (*models.Slot, error) {
	objectID, err := primitive.ObjectIDFromHex(slotID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	filter := bson.M{"_id": objectID, "status": models.SlotStatusAvailable}
	update := bson.M{"$set": bson.M{
		"status":           models.SlotStatusBooked,
		"patientId":        patientID,
		"bookingReference": bookingReference,
		"updatedAt":        time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var slot models.Slot
	err = repo.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &slot, nil
}

// UpdateStatus is the generic compare-and-set sibling of Book: the slot moves
// to the target status only if its current status is one of from.
func (repo *SlotMongoRepository) UpdateStatus(ctx context.Context, slotID string, from []models.SlotStatus, to models.SlotStatus) (*models.Slot, error) {
	objectID, err := primitive.ObjectIDFromHex(slotID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	filter := bson.M{"_id": objectID, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{
		"status":    to,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var slot models.Slot
	err = repo.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &slot, nil
}

// Delete removes the slot only while it is not booked; the status guard
// rides in the filter so a concurrent booking makes the delete a no-op
// instead of destroying the booking.
func (repo *SlotMongoRepository) Delete(ctx context.Context, slotID string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(slotID)
	if err != nil {
		return false, exceptions.ErrMongoDBNotObjectID(err)
	}

	filter := bson.M{
		"_id":    objectID,
		"status": bson.M{"$ne": models.SlotStatusBooked},
	}
	result, err := repo.Collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, exceptions.ErrMongoDBDeleteDocument(err)
	}
	return result.DeletedCount == 1, nil
}

func (repo *SlotMongoRepository) DeleteByAvailabilityID(ctx context.Context, availabilityID string) (int64, error) {
	filter := bson.M{
		"availabilityId": availabilityID,
		"status":         bson.M{"$ne": models.SlotStatusBooked},
	}
	result, err := repo.Collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, exceptions.ErrMongoDBDeleteDocument(err)
	}
	return result.DeletedCount, nil
}

func (repo *SlotMongoRepository) CountBookedByAvailabilityID(ctx context.Context, availabilityID string) (int64, error) {
	count, err := repo.Collection.CountDocuments(ctx, bson.M{
		"availabilityId": availabilityID,
		"status":         models.SlotStatusBooked,
	})
	if err != nil {
		return 0, exceptions.ErrMongoDBFindDocument(err)
	}
	return count, nil
}

// DeleteExpiredAvailable removes never-booked slots whose end already passed
// the cutoff. Booked slots are kept forever as history. An empty providerID
// sweeps every provider.
func (repo *SlotMongoRepository) DeleteExpiredAvailable(ctx context.Context, providerID string, before time.Time) (int64, error) {
	filter := bson.M{
		"status":  models.SlotStatusAvailable,
		"endTime": bson.M{"$lt": before},
	}
	if providerID != "" {
		filter["providerId"] = providerID
	}

	result, err := repo.Collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, exceptions.ErrMongoDBDeleteDocument(err)
	}
	return result.DeletedCount, nil
}
