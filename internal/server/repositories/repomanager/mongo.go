package repomanager

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/referralhub/internal/server/repositories/accounts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// accountsCollection matches the collection name of the legacy data.
const accountsCollection = "users"

// MongoRepositoryManager vends MongoDB-backed repositories. WithTx runs fn
// without a multi-document transaction; each write it issues is atomic on
// its own.
type MongoRepositoryManager struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// ConnectMongo connects and pings within a bounded time.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

func NewMongoRepositoryManager(client *mongo.Client, database string) *MongoRepositoryManager {
	return &MongoRepositoryManager{
		client: client,
		coll:   client.Database(database).Collection(accountsCollection),
	}
}

func (m *MongoRepositoryManager) Accounts() accounts.Repository {
	return accounts.NewMongoRepository(m.coll)
}

func (m *MongoRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repo accounts.Repository) error) error {
	return fn(ctx, m.Accounts())
}

// RunMigrations installs the unique and lookup indexes.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateMany(ctx, accounts.Indexes())
	return err
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
