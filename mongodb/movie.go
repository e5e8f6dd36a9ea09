package mongodb

import (
	"context"
	"errors"
	"fmt"

	"moviecatalog/movie"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MovieRepository implements movie.Repository on a MongoDB collection.
// Movies are stored as flat documents keyed by an ObjectID.
type MovieRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

func NewMovieRepository(client *mongo.Client, database, collection string) *MovieRepository {
	return &MovieRepository{
		client:     client,
		database:   database,
		collection: collection,
	}
}

// EnsureIndexes creates the lookup indexes on title, director and genre.
func (r *MovieRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.coll()
	if err != nil {
		return err
	}

	models := make([]mongo.IndexModel, 0, 3)
	for _, field := range []string{movie.FieldTitle, movie.FieldDirector, movie.FieldGenre} {
		models = append(models, mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}})
	}
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("mongodb: create movie indexes: %w", err)
	}
	return nil
}

func (r *MovieRepository) Insert(ctx context.Context, m movie.Movie) (movie.Movie, error) {
	coll, err := r.coll()
	if err != nil {
		return movie.Movie{}, err
	}

	res, err := coll.InsertOne(ctx, bson.M(m.Document()))
	if err != nil {
		return movie.Movie{}, fmt.Errorf("mongodb: insert movie: %w", err)
	}

	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return movie.Movie{}, fmt.Errorf("mongodb: unexpected inserted id type %T", res.InsertedID)
	}
	m.ID = oid.Hex()
	return m, nil
}

func (r *MovieRepository) FindOneByTitle(ctx context.Context, title string) (movie.Movie, error) {
	coll, err := r.coll()
	if err != nil {
		return movie.Movie{}, err
	}

	var doc bson.M
	err = coll.FindOne(ctx, bson.M{movie.FieldTitle: title}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return movie.Movie{}, movie.ErrMovieNotFound
	}
	if err != nil {
		return movie.Movie{}, fmt.Errorf("mongodb: find movie by title: %w", err)
	}
	return toMovie(doc)
}

func (r *MovieRepository) FindAll(ctx context.Context) ([]movie.Movie, error) {
	return r.find(ctx, bson.M{})
}

func (r *MovieRepository) FindByDirector(ctx context.Context, director string) ([]movie.Movie, error) {
	return r.find(ctx, bson.M{movie.FieldDirector: director})
}

func (r *MovieRepository) FindByGenre(ctx context.Context, genre string) ([]movie.Movie, error) {
	return r.find(ctx, bson.M{movie.FieldGenre: genre})
}

// UpdateByID sets the patched fields and returns the document as it is
// after the update. An id that is not an ObjectID is a store fault.
func (r *MovieRepository) UpdateByID(ctx context.Context, id string, p movie.Patch) (movie.Movie, error) {
	coll, err := r.coll()
	if err != nil {
		return movie.Movie{}, err
	}

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return movie.Movie{}, fmt.Errorf("mongodb: movie id %q: %w", id, err)
	}

	var res *mongo.SingleResult
	if fields := p.Fields(); len(fields) == 0 {
		// $set refuses an empty document
		res = coll.FindOne(ctx, bson.M{movie.FieldID: oid})
	} else {
		res = coll.FindOneAndUpdate(ctx,
			bson.M{movie.FieldID: oid},
			bson.M{"$set": bson.M(fields)},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)
	}

	var doc bson.M
	err = res.Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return movie.Movie{}, movie.ErrMovieNotFound
	}
	if err != nil {
		return movie.Movie{}, fmt.Errorf("mongodb: update movie: %w", err)
	}
	return toMovie(doc)
}

func (r *MovieRepository) DeleteByID(ctx context.Context, id string) error {
	coll, err := r.coll()
	if err != nil {
		return err
	}

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("mongodb: movie id %q: %w", id, err)
	}

	res, err := coll.DeleteOne(ctx, bson.M{movie.FieldID: oid})
	if err != nil {
		return fmt.Errorf("mongodb: delete movie: %w", err)
	}
	if res.DeletedCount == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

func (r *MovieRepository) find(ctx context.Context, filter bson.M) ([]movie.Movie, error) {
	coll, err := r.coll()
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: movie.FieldID, Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongodb: find movies: %w", err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb: decode movies: %w", err)
	}

	movies := make([]movie.Movie, 0, len(docs))
	for _, doc := range docs {
		m, err := toMovie(doc)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, nil
}

func (r *MovieRepository) coll() (*mongo.Collection, error) {
	if err := validateCollection(r.collection); err != nil {
		return nil, err
	}
	return r.client.Database(r.database).Collection(r.collection), nil
}

func toMovie(doc bson.M) (movie.Movie, error) {
	if oid, ok := doc[movie.FieldID].(bson.ObjectID); ok {
		doc[movie.FieldID] = oid.Hex()
	}
	m, err := movie.FromDocument(doc)
	if err != nil {
		return movie.Movie{}, fmt.Errorf("mongodb: decode movie: %w", err)
	}
	return m, nil
}
