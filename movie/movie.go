package movie

import (
	"encoding/json"
	"fmt"

	"moviecatalog/errs"
)

// Document keys of the well-known movie fields.
const (
	FieldID       = "_id"
	FieldTitle    = "title"
	FieldDirector = "director"
	FieldGenre    = "genre"
)

var (
	ErrMovieNotFound = errs.Errorf(errs.ENOTFOUND, "Movie not found.")
	ErrNoMoviesFound = errs.Errorf(errs.ENOTFOUND, "No movies found.")
)

// Movie is a movie document. Title, Director and Genre are the fields the
// catalog looks movies up by; any other caller-supplied attribute is kept in
// Extra and serialized next to them.
type Movie struct {
	ID       string
	Title    string
	Director string
	Genre    string
	Extra    map[string]any
}

func (m Movie) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(m.Extra)+4)
	for k, v := range m.Extra {
		doc[k] = v
	}
	doc[FieldID] = m.ID
	doc[FieldTitle] = m.Title
	doc[FieldDirector] = m.Director
	doc[FieldGenre] = m.Genre
	return json.Marshal(doc)
}

// UnmarshalJSON decodes a caller-supplied document. The identifier is
// assigned by the store, so a client-supplied _id is dropped.
func (m *Movie) UnmarshalJSON(data []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	delete(doc, FieldID)

	decoded, err := FromDocument(doc)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}

// Document flattens the movie into a single map, without the identifier.
func (m Movie) Document() map[string]any {
	doc := make(map[string]any, len(m.Extra)+3)
	for k, v := range m.Extra {
		doc[k] = v
	}
	doc[FieldTitle] = m.Title
	doc[FieldDirector] = m.Director
	doc[FieldGenre] = m.Genre
	return doc
}

// FromDocument builds a movie from a flat document. A string _id, when
// present, becomes the identifier; the store adapters convert native id
// types before calling it.
func FromDocument(doc map[string]any) (Movie, error) {
	var m Movie
	for k, v := range doc {
		switch k {
		case FieldID:
			id, ok := v.(string)
			if !ok {
				return Movie{}, fmt.Errorf("movie: %s has type %T, want string", k, v)
			}
			m.ID = id
		case FieldTitle, FieldDirector, FieldGenre:
			s, err := stringField(k, v)
			if err != nil {
				return Movie{}, err
			}
			m.setField(k, s)
		default:
			if m.Extra == nil {
				m.Extra = make(map[string]any)
			}
			m.Extra[k] = v
		}
	}
	return m, nil
}

func (m *Movie) setField(key, value string) {
	switch key {
	case FieldTitle:
		m.Title = value
	case FieldDirector:
		m.Director = value
	case FieldGenre:
		m.Genre = value
	}
}

// Patch holds the fields of a partial update. Only the keys present are
// changed on the stored movie.
type Patch map[string]any

func (p *Patch) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	delete(fields, FieldID)

	for k, v := range fields {
		if isWellKnown(k) {
			if _, err := stringField(k, v); err != nil {
				return err
			}
		}
	}
	*p = fields
	return nil
}

// Apply merges the patch into m.
func (p Patch) Apply(m *Movie) {
	for k, v := range p {
		switch {
		case k == FieldID:
		case isWellKnown(k):
			s, _ := v.(string)
			m.setField(k, s)
		default:
			if m.Extra == nil {
				m.Extra = make(map[string]any)
			}
			m.Extra[k] = v
		}
	}
}

// Fields returns the patch without the identifier key, with null well-known
// fields normalized to empty strings.
func (p Patch) Fields() map[string]any {
	fields := make(map[string]any, len(p))
	for k, v := range p {
		if k == FieldID {
			continue
		}
		if isWellKnown(k) && v == nil {
			v = ""
		}
		fields[k] = v
	}
	return fields
}

func isWellKnown(key string) bool {
	return key == FieldTitle || key == FieldDirector || key == FieldGenre
}

func stringField(key string, v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", errs.Errorf(errs.EINVALID, "%s must be a string", key)
	}
}
