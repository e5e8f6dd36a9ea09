package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"moviecatalog/movie"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// MovieRepository implements movie.Repository on a DynamoDB table. Lookups
// by title, director and genre are filtered scans.
type MovieRepository struct {
	client *dynamodb.Client
	table  string
}

func NewMovieRepository(client *dynamodb.Client, table string) *MovieRepository {
	return &MovieRepository{
		client: client,
		table:  table,
	}
}

func (r *MovieRepository) Insert(ctx context.Context, m movie.Movie) (movie.Movie, error) {
	if err := validateTable(r.table); err != nil {
		return movie.Movie{}, err
	}

	m.ID = uuid.NewString()
	item, err := marshalMovie(m)
	if err != nil {
		return movie.Movie{}, err
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.table,
		Item:      item,
	})
	if err != nil {
		return movie.Movie{}, fmt.Errorf("dynamodb: put movie: %w", err)
	}

	return m, nil
}

func (r *MovieRepository) FindOneByTitle(ctx context.Context, title string) (movie.Movie, error) {
	movies, err := r.scan(ctx, equals(movie.FieldTitle, title), 1)
	if err != nil {
		return movie.Movie{}, err
	}
	if len(movies) == 0 {
		return movie.Movie{}, movie.ErrMovieNotFound
	}
	return movies[0], nil
}

func (r *MovieRepository) FindAll(ctx context.Context) ([]movie.Movie, error) {
	return r.scan(ctx, nil, 0)
}

func (r *MovieRepository) FindByDirector(ctx context.Context, director string) ([]movie.Movie, error) {
	return r.scan(ctx, equals(movie.FieldDirector, director), 0)
}

func (r *MovieRepository) FindByGenre(ctx context.Context, genre string) ([]movie.Movie, error) {
	return r.scan(ctx, equals(movie.FieldGenre, genre), 0)
}

// UpdateByID sets the patched attributes on an existing item. The
// attribute_exists condition keeps a missing id from creating a new item.
func (r *MovieRepository) UpdateByID(ctx context.Context, id string, p movie.Patch) (movie.Movie, error) {
	if err := validateTable(r.table); err != nil {
		return movie.Movie{}, err
	}

	fields := p.Fields()
	if len(fields) == 0 {
		return r.get(ctx, id)
	}

	var update expression.UpdateBuilder
	for k, v := range fields {
		update = update.Set(expression.Name(k), expression.Value(v))
	}
	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name(keyAttribute))).
		Build()
	if err != nil {
		return movie.Movie{}, fmt.Errorf("dynamodb: build movie update: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.table,
		Key:                       key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return movie.Movie{}, movie.ErrMovieNotFound
	}
	if err != nil {
		return movie.Movie{}, fmt.Errorf("dynamodb: update movie: %w", err)
	}

	return unmarshalMovie(out.Attributes)
}

func (r *MovieRepository) DeleteByID(ctx context.Context, id string) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name(keyAttribute))).
		Build()
	if err != nil {
		return fmt.Errorf("dynamodb: build movie delete: %w", err)
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                &r.table,
		Key:                      key(id),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return movie.ErrMovieNotFound
	}
	if err != nil {
		return fmt.Errorf("dynamodb: delete movie: %w", err)
	}
	return nil
}

func (r *MovieRepository) get(ctx context.Context, id string) (movie.Movie, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.table,
		Key:            key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return movie.Movie{}, fmt.Errorf("dynamodb: get movie: %w", err)
	}
	if len(out.Item) == 0 {
		return movie.Movie{}, movie.ErrMovieNotFound
	}
	return unmarshalMovie(out.Item)
}

// scan walks every page of the table, keeping items matching cond. A
// positive limit stops the walk once that many movies were collected.
func (r *MovieRepository) scan(ctx context.Context, cond *expression.ConditionBuilder, limit int) ([]movie.Movie, error) {
	if err := validateTable(r.table); err != nil {
		return nil, err
	}

	input := &dynamodb.ScanInput{TableName: &r.table}
	if cond != nil {
		expr, err := expression.NewBuilder().WithFilter(*cond).Build()
		if err != nil {
			return nil, fmt.Errorf("dynamodb: build movie filter: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	movies := []movie.Movie{}
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan movies: %w", err)
		}

		for _, item := range out.Items {
			m, err := unmarshalMovie(item)
			if err != nil {
				return nil, err
			}
			movies = append(movies, m)
			if limit > 0 && len(movies) >= limit {
				return movies, nil
			}
		}
	}

	return movies, nil
}

func equals(field, value string) *expression.ConditionBuilder {
	cond := expression.Name(field).Equal(expression.Value(value))
	return &cond
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyAttribute: &types.AttributeValueMemberS{Value: id},
	}
}

func marshalMovie(m movie.Movie) (map[string]types.AttributeValue, error) {
	doc := m.Document()
	doc[keyAttribute] = m.ID
	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: marshal movie: %w", err)
	}
	return item, nil
}

func unmarshalMovie(item map[string]types.AttributeValue) (movie.Movie, error) {
	var doc map[string]any
	if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
		return movie.Movie{}, fmt.Errorf("dynamodb: unmarshal movie: %w", err)
	}
	m, err := movie.FromDocument(doc)
	if err != nil {
		return movie.Movie{}, fmt.Errorf("dynamodb: decode movie: %w", err)
	}
	return m, nil
}
