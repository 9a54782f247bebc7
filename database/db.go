package database

import (
	"context"
	"time"

	"github.com/jabezgenics-alt/ezzo-sales/config"
	"github.com/jabezgenics-alt/ezzo-sales/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoClient is the shared MongoDB client. Repositories reach it through
// Collection rather than holding their own connections.
var MongoClient *mongo.Client

// InitDB connects to MongoDB and verifies the connection with a ping. The
// process cannot serve quotes without a database, so failure here is fatal.
func InitDB() {
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.AppConfig.DatabaseURL))
	if err != nil {
		logger.Fatal("mongodb connect failed", zap.Error(err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("mongodb ping failed", zap.Error(err))
	}

	MongoClient = client
	logger.Info("connected to mongodb", zap.String("database", config.AppConfig.DatabaseName))
}

// Close releases the MongoDB connection during shutdown.
func Close(ctx context.Context) {
	if MongoClient == nil {
		return
	}
	if err := MongoClient.Disconnect(ctx); err != nil {
		utils.GetLogger().Warn("mongodb disconnect failed", zap.Error(err))
	}
}

// Collection returns a handle in the configured database.
func Collection(name string) *mongo.Collection {
	return MongoClient.Database(config.AppConfig.DatabaseName).Collection(name)
}
