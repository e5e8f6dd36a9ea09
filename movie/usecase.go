package movie

import (
	"context"
	"time"

	"moviecatalog/errs"
)

const DefaultTimeout = 5 * time.Second

type Service interface {
	CreateMovie(ctx context.Context, m Movie) (Movie, error)
	MovieByTitle(ctx context.Context, title string) (Movie, error)
	AllMovies(ctx context.Context) ([]Movie, error)
	MoviesByDirector(ctx context.Context, director string) ([]Movie, error)
	MoviesByGenre(ctx context.Context, genre string) ([]Movie, error)
	UpdateMovie(ctx context.Context, id string, p Patch) (Movie, error)
	DeleteMovie(ctx context.Context, id string) error
}

// Repository is implemented by the store adapters. Single-record operations
// report a missing record with ErrMovieNotFound; list operations return an
// empty slice. Any other error is a store fault.
type Repository interface {
	Insert(ctx context.Context, m Movie) (Movie, error)
	FindOneByTitle(ctx context.Context, title string) (Movie, error)
	FindAll(ctx context.Context) ([]Movie, error)
	FindByDirector(ctx context.Context, director string) ([]Movie, error)
	FindByGenre(ctx context.Context, genre string) ([]Movie, error)
	UpdateByID(ctx context.Context, id string, p Patch) (Movie, error)
	DeleteByID(ctx context.Context, id string) error
}

type Option func(uc *Usecase)

// WithTimeout bounds every store call. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(uc *Usecase) {
		uc.timeout = d
	}
}

type Usecase struct {
	r       Repository
	timeout time.Duration
}

func NewUsecase(r Repository, opts ...Option) *Usecase {
	uc := &Usecase{r: r, timeout: DefaultTimeout}
	for _, fn := range opts {
		fn(uc)
	}
	return uc
}

func (uc *Usecase) CreateMovie(ctx context.Context, m Movie) (Movie, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	created, err := uc.r.Insert(ctx, m)
	if err != nil {
		return Movie{}, errs.Wrap(errs.EINTERNAL, "Failed to add movie.", err)
	}
	return created, nil
}

func (uc *Usecase) MovieByTitle(ctx context.Context, title string) (Movie, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	m, err := uc.r.FindOneByTitle(ctx, title)
	if err != nil {
		return Movie{}, fault(err, "Failed to fetch movie.")
	}
	return m, nil
}

func (uc *Usecase) AllMovies(ctx context.Context) ([]Movie, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	movies, err := uc.r.FindAll(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.EINTERNAL, "Failed to fetch movies.", err)
	}
	return movies, nil
}

func (uc *Usecase) MoviesByDirector(ctx context.Context, director string) ([]Movie, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	movies, err := uc.r.FindByDirector(ctx, director)
	if err != nil {
		return nil, errs.Wrap(errs.EINTERNAL, "Failed to fetch movies.", err)
	}
	return movies, nil
}

func (uc *Usecase) MoviesByGenre(ctx context.Context, genre string) ([]Movie, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	movies, err := uc.r.FindByGenre(ctx, genre)
	if err != nil {
		return nil, errs.Wrap(errs.EINTERNAL, "Failed to fetch movies.", err)
	}
	return movies, nil
}

func (uc *Usecase) UpdateMovie(ctx context.Context, id string, p Patch) (Movie, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	m, err := uc.r.UpdateByID(ctx, id, p)
	if err != nil {
		return Movie{}, fault(err, "Failed to update movie.")
	}
	return m, nil
}

func (uc *Usecase) DeleteMovie(ctx context.Context, id string) error {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	if err := uc.r.DeleteByID(ctx, id); err != nil {
		return fault(err, "Failed to delete movie.")
	}
	return nil
}

// withTimeout keeps a deadline the caller already set.
func (uc *Usecase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || uc.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, uc.timeout)
}

// fault passes not-found errors through and turns everything else into an
// internal error carrying the given public message.
func fault(err error, message string) error {
	if errs.ErrorCode(err) == errs.ENOTFOUND {
		return err
	}
	return errs.Wrap(errs.EINTERNAL, message, err)
}
