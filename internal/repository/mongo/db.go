package mongo

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// Collection names
const (
	UsersCollection        = "users"
	TrainersCollection     = "trainers"
	ApplicationsCollection = "trainerApplications"
	BookingsCollection     = "trainersSlotBooking"
	PaymentsCollection     = "payments"
	SubscribersCollection  = "subscribers"
	ReviewsCollection      = "reviews"
	ForumsCollection       = "forums"
	ClassesCollection      = "classes"
	PackagesCollection     = "packages"
	ImagesCollection       = "exerciseImages"
)

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client, which is a connection pool safe for
// concurrent use and should be disconnected once on shutdown.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1).SetStrict(true).SetDeprecationErrors(true)
	clientOptions := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Connect succeeds lazily; ping so a bad URI fails at startup.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	err = client.Ping(pingCtx, readpref.Primary())
	if err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// txRunner runs multi-collection writes inside a transaction. Transactions
// need a replica set; with enabled=false the steps run one after another
// and callers compensate on failure instead.
type txRunner struct {
	client  *mongo.Client
	enabled bool
}

func newTxRunner(db *mongo.Database, enabled bool) txRunner {
	return txRunner{client: db.Client(), enabled: enabled}
}

func (t txRunner) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// compensate undoes a partial write when no transaction protected it.
// Failures are logged because the caller is already returning an error.
func (t txRunner) compensate(ctx context.Context, what string, undo func(ctx context.Context) error) {
	if t.enabled {
		return
	}
	if err := undo(context.WithoutCancel(ctx)); err != nil {
		log.Printf("ERROR: Failed to compensate %s: %v", what, err)
	}
}

// EnsureIndexes creates the indexes for every collection. Call this once
// during application startup; failures are logged, not fatal.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	ensureUserIndexes(ctx, db.Collection(UsersCollection))
	ensureApplicationIndexes(ctx, db.Collection(ApplicationsCollection))
	ensureTrainerIndexes(ctx, db.Collection(TrainersCollection))
	ensureBookingIndexes(ctx, db.Collection(BookingsCollection))
	ensurePaymentIndexes(ctx, db.Collection(PaymentsCollection))
	ensureSubscriberIndexes(ctx, db.Collection(SubscribersCollection))
}

func createIndexes(ctx context.Context, collection *mongo.Collection, indexes []mongo.IndexModel) {
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
