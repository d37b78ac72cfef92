package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/arslanyasin/bnw-orders-backend-sub000/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var DB *mongo.Database

func ConnectDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoURI := config.GetEnv("MONGODB_URI", "mongodb://localhost:27017")
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return err
	}

	// Ping the database
	err = client.Ping(ctx, nil)
	if err != nil {
		return err
	}

	DB = client.Database("bnw_orders")
	log.Println("🗄️ Connected to MongoDB!")

	if err := EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}
	return nil
}

// EnsureIndexes backs the read-then-write exclusivity checks with unique
// constraints: one live shipment per order, one live challan per shipment,
// unique business-facing numbers.
func EnsureIndexes(ctx context.Context) error {
	notDeleted := bson.M{"isDeleted": false}

	_, err := DB.Collection("shipments").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "orderId", Value: 1}},
		Options: options.Index().SetUnique(true).SetPartialFilterExpression(notDeleted),
	})
	if err != nil {
		return err
	}

	_, err = DB.Collection("challans").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shipmentId", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(notDeleted),
		},
		{
			Keys:    bson.D{{Key: "number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = DB.Collection("purchase_orders").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// NextSequence atomically allocates the next value of a year-scoped counter.
// A missing counter starts at floor+1, so a sequence migrated from the legacy
// max-scan scheme continues where the existing documents left off.
func NextSequence(ctx context.Context, name string, year int, floor int) (int, error) {
	key := fmt.Sprintf("%s-%d", name, year)
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"seq": bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$seq", floor}}, 1}},
		}}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc struct {
		Seq int `bson:"seq"`
	}
	err := DB.Collection("counters").FindOneAndUpdate(ctx, bson.M{"_id": key}, update, opts).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}
