package availability

import (
	"context"
	"healthfirst-service/internal/app/contracts"
	"healthfirst-service/internal/app/models"
	"healthfirst-service/internal/pkg/constvars"
	"healthfirst-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AvailabilityMongoRepository struct {
	Collection *mongo.Collection
}

func NewAvailabilityMongoRepository(db *mongo.Client, dbName string) contracts.AvailabilityRepository {
	return &AvailabilityMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionAvailabilities),
	}
}

func (repo *AvailabilityMongoRepository) Insert(ctx context.Context, availability *models.Availability) (string, error) {
	result, err := repo.Collection.InsertOne(ctx, availability)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (repo *AvailabilityMongoRepository) FindByID(ctx context.Context, availabilityID string) (*models.Availability, error) {
	objectID, err := primitive.ObjectIDFromHex(availabilityID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	var availability models.Availability
	err = repo.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&availability)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &availability, nil
}

func (repo *AvailabilityMongoRepository) FindByProvider(ctx context.Context, providerID string) ([]models.Availability, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})
	cursor, err := repo.Collection.Find(ctx, bson.M{"providerId": providerID}, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var availabilities []models.Availability
	if err := cursor.All(ctx, &availabilities); err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return availabilities, nil
}

func (repo *AvailabilityMongoRepository) FindByProviderAndDateRange(ctx context.Context, providerID, startDate, endDate string) ([]models.Availability, error) {
	filter := bson.M{
		"providerId": providerID,
		"$or": []bson.M{
			{"date": bson.M{"$gte": startDate, "$lte": endDate}},
			{"isRecurring": true, "date": bson.M{"$lte": endDate}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})
	cursor, err := repo.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var availabilities []models.Availability
	if err := cursor.All(ctx, &availabilities); err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return availabilities, nil
}

func (repo *AvailabilityMongoRepository) Delete(ctx context.Context, availabilityID string) error {
	objectID, err := primitive.ObjectIDFromHex(availabilityID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	result, err := repo.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	if result.DeletedCount == 0 {
		return exceptions.ErrAvailabilityNotFound(mongo.ErrNoDocuments)
	}
	return nil
}
