package store

import (
	"context"

	"github.com/myflix/movieapi/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type movieDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"Title"`
	Description string             `bson:"Description"`
	Genre       struct {
		Name        string `bson:"Name"`
		Description string `bson:"Description"`
	} `bson:"Genre"`
	Director struct {
		Name  string `bson:"Name"`
		Bio   string `bson:"Bio"`
		Birth string `bson:"Birth,omitempty"`
	} `bson:"Director"`
	Actors    []string `bson:"Actors"`
	ImagePath string   `bson:"ImagePath"`
	Featured  bool     `bson:"Featured"`
}

func newMovieDocument(movie types.Movie) movieDocument {
	doc := movieDocument{
		Title:       movie.Title,
		Description: movie.Description,
		Actors:      movie.Actors,
		ImagePath:   movie.ImagePath,
		Featured:    movie.Featured,
	}
	if doc.Actors == nil {
		doc.Actors = []string{}
	}
	doc.Genre.Name = movie.Genre.Name
	doc.Genre.Description = movie.Genre.Description
	doc.Director.Name = movie.Director.Name
	doc.Director.Bio = movie.Director.Bio
	doc.Director.Birth = movie.Director.Birth
	return doc
}

func (d movieDocument) toMovie() types.Movie {
	actors := d.Actors
	if actors == nil {
		actors = []string{}
	}
	return types.Movie{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Genre:       types.Genre{Name: d.Genre.Name, Description: d.Genre.Description},
		Director:    types.Director{Name: d.Director.Name, Bio: d.Director.Bio, Birth: d.Director.Birth},
		Actors:      actors,
		ImagePath:   d.ImagePath,
		Featured:    d.Featured,
	}
}

// MongoMovieRepository handles persistence for movies in MongoDB.
type MongoMovieRepository struct {
	movies *mongo.Collection
	users  *mongo.Collection
}

func NewMongoMovieRepository(db *mongo.Database) *MongoMovieRepository {
	return &MongoMovieRepository{
		movies: db.Collection(moviesCollection),
		users:  db.Collection(usersCollection),
	}
}

func (r *MongoMovieRepository) List(ctx context.Context) ([]types.Movie, error) {
	cursor, err := r.movies.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []movieDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	movies := make([]types.Movie, 0, len(docs))
	for _, doc := range docs {
		movies = append(movies, doc.toMovie())
	}
	return movies, nil
}

func (r *MongoMovieRepository) GetByID(ctx context.Context, id string) (types.Movie, error) {
	oid, ok := objectID(id)
	if !ok {
		return types.Movie{}, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoMovieRepository) GetByTitle(ctx context.Context, title string) (types.Movie, error) {
	return r.findOne(ctx, bson.M{"Title": title})
}

func (r *MongoMovieRepository) GetByGenre(ctx context.Context, name string) (types.Movie, error) {
	return r.findOne(ctx, bson.M{"Genre.Name": name})
}

func (r *MongoMovieRepository) GetByDirector(ctx context.Context, name string) (types.Movie, error) {
	return r.findOne(ctx, bson.M{"Director.Name": name})
}

func (r *MongoMovieRepository) findOne(ctx context.Context, filter bson.M) (types.Movie, error) {
	var doc movieDocument
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := r.movies.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return types.Movie{}, mongoNotFound(err)
	}
	return doc.toMovie(), nil
}

func (r *MongoMovieRepository) Create(ctx context.Context, movie types.Movie) (types.Movie, error) {
	doc := newMovieDocument(movie)
	doc.ID = primitive.NewObjectID()
	if _, err := r.movies.InsertOne(ctx, doc); err != nil {
		return types.Movie{}, mongoWriteErr(err)
	}
	return doc.toMovie(), nil
}

func (r *MongoMovieRepository) Update(ctx context.Context, movie types.Movie) (types.Movie, error) {
	oid, ok := objectID(movie.ID)
	if !ok {
		return types.Movie{}, ErrNotFound
	}
	doc := newMovieDocument(movie)
	opts := options.FindOneAndReplace().SetReturnDocument(options.After)
	var updated movieDocument
	if err := r.movies.FindOneAndReplace(ctx, bson.M{"_id": oid}, doc, opts).Decode(&updated); err != nil {
		return types.Movie{}, mongoWriteErr(err)
	}
	return updated.toMovie(), nil
}

// Delete removes the movie and drops it from every user's favorites.
func (r *MongoMovieRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return ErrNotFound
	}
	result, err := r.movies.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	_, err = r.users.UpdateMany(ctx,
		bson.M{"FavoriteMovies": oid},
		bson.M{"$pull": bson.M{"FavoriteMovies": oid}},
	)
	return err
}
