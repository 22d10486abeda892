package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	coachesCollection  = "coaches"
	servicesCollection = "services"
	slotsCollection    = "availability_slots"
)

type mongoRepository struct {
	coaches  *mongo.Collection
	services *mongo.Collection
	slots    *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		coaches:  db.Collection(coachesCollection),
		services: db.Collection(servicesCollection),
		slots:    db.Collection(slotsCollection),
	}
}

func (r *mongoRepository) GetCoach(ctx context.Context, coachID string) (*Coach, error) {
	var coach Coach
	err := r.coaches.FindOne(ctx, bson.M{"_id": coachID}).Decode(&coach)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCoachNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get coach %s: %w", coachID, err)
	}
	return &coach, nil
}

func (r *mongoRepository) ListServices(ctx context.Context, coachID string) ([]Service, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.services.Find(ctx, bson.M{"coach_id": coachID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list services for coach %s: %w", coachID, err)
	}
	defer cursor.Close(ctx)

	services := []Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("decode services for coach %s: %w", coachID, err)
	}
	return services, nil
}

// ListSlots relies on YYYY-MM-DD strings ordering the same way as the dates
// they name.
func (r *mongoRepository) ListSlots(ctx context.Context, coachID string, from, to Date) ([]AvailabilitySlot, error) {
	filter := bson.M{
		"coach_id": coachID,
		"date":     bson.M{"$gte": from.String(), "$lte": to.String()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}})

	cursor, err := r.slots.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list slots for coach %s: %w", coachID, err)
	}
	defer cursor.Close(ctx)

	slots := []AvailabilitySlot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("decode slots for coach %s: %w", coachID, err)
	}
	return slots, nil
}
