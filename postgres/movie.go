package postgres

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"moviecatalog/movie"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Attributes holds the additional fields of a movie in a jsonb column.
type Attributes map[string]any

func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *Attributes) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("postgres: cannot scan %T into attributes", src)
	}

	var attrs map[string]any
	if err := json.Unmarshal(data, &attrs); err != nil {
		return err
	}
	if len(attrs) == 0 {
		attrs = nil
	}
	*a = attrs
	return nil
}

// MovieModel represents the database model for movies. The lookup fields
// are columns; everything else the caller sent lives in Attributes.
type MovieModel struct {
	ID         string     `gorm:"type:uuid;primaryKey"`
	Title      string     `gorm:"not null;default:''"`
	Director   string     `gorm:"not null;default:''"`
	Genre      string     `gorm:"not null;default:''"`
	Attributes Attributes `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt  time.Time
}

// TableName specifies the table name for GORM
func (MovieModel) TableName() string {
	return "movies"
}

func (model MovieModel) toMovie() movie.Movie {
	return movie.Movie{
		ID:       model.ID,
		Title:    model.Title,
		Director: model.Director,
		Genre:    model.Genre,
		Extra:    model.Attributes,
	}
}

func (model *MovieModel) set(m movie.Movie) {
	model.Title = m.Title
	model.Director = m.Director
	model.Genre = m.Genre
	model.Attributes = m.Extra
}

// MovieRepository implements movie.Repository interface
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) Insert(ctx context.Context, m movie.Movie) (movie.Movie, error) {
	model := MovieModel{ID: uuid.NewString()}
	model.set(m)

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return movie.Movie{}, fmt.Errorf("postgres: insert movie: %w", err)
	}
	return model.toMovie(), nil
}

func (r *MovieRepository) FindOneByTitle(ctx context.Context, title string) (movie.Movie, error) {
	var model MovieModel
	err := r.db.WithContext(ctx).
		Where("title = ?", title).
		Order("created_at").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return movie.Movie{}, movie.ErrMovieNotFound
	}
	if err != nil {
		return movie.Movie{}, fmt.Errorf("postgres: find movie by title: %w", err)
	}
	return model.toMovie(), nil
}

func (r *MovieRepository) FindAll(ctx context.Context) ([]movie.Movie, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *MovieRepository) FindByDirector(ctx context.Context, director string) ([]movie.Movie, error) {
	return r.find(r.db.WithContext(ctx).Where("director = ?", director))
}

func (r *MovieRepository) FindByGenre(ctx context.Context, genre string) ([]movie.Movie, error) {
	return r.find(r.db.WithContext(ctx).Where("genre = ?", genre))
}

// UpdateByID merges the patch into the stored movie inside a transaction,
// holding a row lock so concurrent patches do not overwrite each other.
func (r *MovieRepository) UpdateByID(ctx context.Context, id string, p movie.Patch) (movie.Movie, error) {
	var model MovieModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, "id = ?", id).Error; err != nil {
			return err
		}
		if len(p) == 0 {
			return nil
		}

		m := model.toMovie()
		p.Apply(&m)
		model.set(m)
		return tx.Save(&model).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return movie.Movie{}, movie.ErrMovieNotFound
	}
	if err != nil {
		return movie.Movie{}, fmt.Errorf("postgres: update movie: %w", err)
	}
	return model.toMovie(), nil
}

func (r *MovieRepository) DeleteByID(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&MovieModel{})
	if res.Error != nil {
		return fmt.Errorf("postgres: delete movie: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

func (r *MovieRepository) find(q *gorm.DB) ([]movie.Movie, error) {
	var models []MovieModel
	if err := q.Order("created_at, id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("postgres: find movies: %w", err)
	}

	movies := make([]movie.Movie, len(models))
	for i, model := range models {
		movies[i] = model.toMovie()
	}
	return movies, nil
}
