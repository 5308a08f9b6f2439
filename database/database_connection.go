package database

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

var (
	dbClient *mongo.Client
	connect  sync.Once
)

func Connect() *mongo.Client {
	connect.Do(func() {
		serverAPI := options.ServerAPI(options.ServerAPIVersion1)
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
		uri := os.Getenv("MONGODB_URI")
		opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
		client, err := mongo.Connect(opts)
		if err != nil {
			log.Fatal("mongo connect: ", err)
		}
		if err := client.Ping(context.TODO(), readpref.Primary()); err != nil {
			log.Fatal("mongo ping: ", err)
		}
		dbClient = client
	})
	return dbClient
}

func Database() *mongo.Database {
	return Connect().Database(os.Getenv("DATABASE_NAME"))
}

func OpenCollection(collectionName string) *mongo.Collection {
	return Database().Collection(collectionName)
}
