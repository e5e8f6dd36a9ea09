package main

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"moviecatalog/errs"
	"moviecatalog/movie"
)

const noGenres = "(no genres listed)"

type importStats struct {
	Imported int
	Skipped  int
}

// importMovies creates a movie for every MovieLens row whose title is not
// in the catalog yet, so a rerun only adds what is missing.
func importMovies(ctx context.Context, svc movie.Service, r io.Reader, limit int) (importStats, error) {
	var stats importStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	idx, err := parseMovieCSVHeader(reader)
	if err != nil {
		return stats, err
	}

	for limit <= 0 || stats.Imported < limit {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}

		m, ok := parseMovieRecord(record, idx)
		if !ok {
			stats.Skipped++
			continue
		}

		_, err = svc.MovieByTitle(ctx, m.Title)
		switch {
		case err == nil:
			stats.Skipped++
			continue
		case errs.ErrorCode(err) != errs.ENOTFOUND:
			return stats, err
		}

		if _, err := svc.CreateMovie(ctx, m); err != nil {
			return stats, err
		}
		stats.Imported++

		if stats.Imported%500 == 0 {
			slog.Info("import progress", "imported", stats.Imported)
		}
	}

	return stats, nil
}

type csvColumns struct {
	movieID, title, genres int
}

func parseMovieCSVHeader(reader *csv.Reader) (csvColumns, error) {
	header, err := reader.Read()
	if err != nil {
		return csvColumns{}, err
	}

	idx := csvColumns{movieID: -1, title: -1, genres: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "movieId":
			idx.movieID = i
		case "title":
			idx.title = i
		case "genres":
			idx.genres = i
		}
	}
	if idx.movieID == -1 || idx.title == -1 || idx.genres == -1 {
		return csvColumns{}, errors.New("missing required columns in csv header")
	}

	return idx, nil
}

// parseMovieRecord maps a MovieLens row onto a movie. The first listed genre
// becomes the catalog genre; the full list and the MovieLens id are kept as
// additional fields.
func parseMovieRecord(record []string, idx csvColumns) (movie.Movie, bool) {
	if idx.movieID >= len(record) || idx.title >= len(record) || idx.genres >= len(record) {
		return movie.Movie{}, false
	}

	movieID, err := strconv.Atoi(strings.TrimSpace(record[idx.movieID]))
	if err != nil {
		return movie.Movie{}, false
	}
	title := strings.TrimSpace(record[idx.title])
	if title == "" {
		return movie.Movie{}, false
	}

	genres := []string{}
	if raw := strings.TrimSpace(record[idx.genres]); raw != "" && raw != noGenres {
		genres = strings.Split(raw, "|")
	}

	m := movie.Movie{
		Title: title,
		Extra: map[string]any{
			"movielens_id": movieID,
			"genres":       genres,
		},
	}
	if len(genres) > 0 {
		m.Genre = genres[0]
	}
	return m, true
}
