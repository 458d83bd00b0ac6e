package store

import (
	"context"
	"time"

	"github.com/myflix/movieapi/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDocument struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	Username       string               `bson:"Username"`
	Password       string               `bson:"Password"`
	Email          string               `bson:"Email"`
	Birthday       *time.Time           `bson:"Birthday,omitempty"`
	FavoriteMovies []primitive.ObjectID `bson:"FavoriteMovies"`
	CreatedAt      time.Time            `bson:"CreatedAt,omitempty"`
	UpdatedAt      time.Time            `bson:"UpdatedAt,omitempty"`
}

func (d userDocument) toUser() types.User {
	favs := make([]string, 0, len(d.FavoriteMovies))
	for _, id := range d.FavoriteMovies {
		favs = append(favs, id.Hex())
	}
	return types.User{
		ID:             d.ID.Hex(),
		Username:       d.Username,
		PasswordHash:   d.Password,
		Email:          d.Email,
		Birthday:       d.Birthday,
		FavoriteMovies: favs,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// MongoUserRepository handles persistence for users in MongoDB.
type MongoUserRepository struct {
	users *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{users: db.Collection(usersCollection)}
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return types.User{}, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return r.findOne(ctx, bson.M{"Username": username})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (types.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return types.User{}, mongoNotFound(err)
	}
	return doc.toUser(), nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]types.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]types.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toUser())
	}
	return users, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now().UTC()
	doc := userDocument{
		ID:             primitive.NewObjectID(),
		Username:       user.Username,
		Password:       user.PasswordHash,
		Email:          user.Email,
		Birthday:       user.Birthday,
		FavoriteMovies: []primitive.ObjectID{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		return types.User{}, mongoWriteErr(err)
	}
	return doc.toUser(), nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user types.User) (types.User, error) {
	oid, ok := objectID(user.ID)
	if !ok {
		return types.User{}, ErrNotFound
	}
	update := bson.M{"$set": bson.M{
		"Username":  user.Username,
		"Password":  user.PasswordHash,
		"Email":     user.Email,
		"Birthday":  user.Birthday,
		"UpdatedAt": time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, oid, update)
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return ErrNotFound
	}
	result, err := r.users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) AddFavorite(ctx context.Context, userID, movieID string) (types.User, error) {
	oid, ok := objectID(userID)
	if !ok {
		return types.User{}, ErrNotFound
	}
	movieOID, ok := objectID(movieID)
	if !ok {
		return types.User{}, ErrNotFound
	}
	update := bson.M{
		"$addToSet": bson.M{"FavoriteMovies": movieOID},
		"$set":      bson.M{"UpdatedAt": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, oid, update)
}

func (r *MongoUserRepository) RemoveFavorite(ctx context.Context, userID, movieID string) (types.User, error) {
	oid, ok := objectID(userID)
	if !ok {
		return types.User{}, ErrNotFound
	}
	movieOID, ok := objectID(movieID)
	if !ok {
		return r.GetByID(ctx, userID)
	}
	update := bson.M{
		"$pull": bson.M{"FavoriteMovies": movieOID},
		"$set":  bson.M{"UpdatedAt": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, oid, update)
}

func (r *MongoUserRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (types.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDocument
	if err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc); err != nil {
		return types.User{}, mongoWriteErr(err)
	}
	return doc.toUser(), nil
}
