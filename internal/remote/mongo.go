package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"masquerade/internal/domain"
)

const mongoCollection = "designs"

type mongoRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
	log    *zap.Logger
}

// mongoURI builds the connection string and resolves the database name.
// A full mongodb:// or mongodb+srv:// string (in URI or Host) is used as is,
// with Atlas-style <password> placeholders filled in.
func mongoURI(conn *domain.RemoteConnection, password string) (uri, dbName string) {
	full := conn.URI
	if full == "" && (strings.HasPrefix(conn.Host, "mongodb+srv://") || strings.HasPrefix(conn.Host, "mongodb://")) {
		full = conn.Host
	}

	if full != "" {
		uri = full
		if password != "" {
			uri = strings.ReplaceAll(uri, "<password>", password)
			uri = strings.ReplaceAll(uri, "<db_password>", password)
		}
	} else {
		port := conn.Port
		if port == 0 {
			port = 27017
		}
		if conn.Username != "" {
			uri = fmt.Sprintf("mongodb://%s:%s@%s:%d", conn.Username, password, conn.Host, port)
		} else {
			uri = fmt.Sprintf("mongodb://%s:%d", conn.Host, port)
		}
	}

	dbName = conn.Database
	if dbName == "" {
		dbName = databaseFromURI(uri)
	}
	return uri, dbName
}

// databaseFromURI reads the path segment of user:pass@host/DB?params,
// falling back to the driver's default database.
func databaseFromURI(uri string) string {
	rest := uri
	for _, prefix := range []string{"mongodb+srv://", "mongodb://"} {
		if strings.HasPrefix(rest, prefix) {
			rest = rest[len(prefix):]
			break
		}
	}
	if at := strings.LastIndex(rest, "@"); at != -1 {
		rest = rest[at+1:]
	}
	if slash := strings.Index(rest, "/"); slash != -1 {
		path := rest[slash+1:]
		if q := strings.Index(path, "?"); q != -1 {
			path = path[:q]
		}
		if path != "" {
			return path
		}
	}
	return "test"
}

func maskPassword(uri, password string) string {
	if password == "" {
		return uri
	}
	return strings.ReplaceAll(uri, password, "***")
}

func openMongo(conn *domain.RemoteConnection, password string, log *zap.Logger) (*mongoRepository, error) {
	uri, dbName := mongoURI(conn, password)
	log.Debug("connecting to mongo", zap.String("uri", maskPassword(uri, password)), zap.String("database", dbName))

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return &mongoRepository{
		client: client,
		coll:   client.Database(dbName).Collection(mongoCollection),
		log:    log,
	}, nil
}

func (r *mongoRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return r.client.Ping(ctx, nil)
}

func (r *mongoRepository) Publish(ctx context.Context, d domain.SavedDesign) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: d.ID}}, d, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("publish design: %w", err)
	}
	r.log.Info("design published", zap.String("id", d.ID))
	return nil
}

func (r *mongoRepository) Fetch(ctx context.Context, id string) (*domain.SavedDesign, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var d domain.SavedDesign
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("shared design %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch design: %w", err)
	}
	return &d, nil
}

func (r *mongoRepository) List(ctx context.Context) ([]domain.SavedDesign, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list shared designs: %w", err)
	}
	var out []domain.SavedDesign
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode shared designs: %w", err)
	}
	return out, nil
}

func (r *mongoRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}
