package adapter

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/model"
	"google.golang.org/api/iterator"
)

// KeywordCount is one row of the keyword frequency aggregation
type KeywordCount struct {
	Keyword string `bigquery:"keyword"`
	Count   int64  `bigquery:"count"`
}

// BigQuery is an interface for exporting analysis records and aggregating
// keyword statistics over the exported table
type BigQuery interface {
	// InsertAnalyses streams analysis records into the export table
	InsertAnalyses(ctx context.Context, analyses []*model.Analysis) error

	// KeywordCounts aggregates keyword frequencies over the export table,
	// most frequent first
	KeywordCounts(ctx context.Context, limit int) ([]*KeywordCount, error)
}

type analysisRow struct {
	ID        string    `bigquery:"id"`
	Analysis  string    `bigquery:"analysis"`
	Findings  []string  `bigquery:"findings"`
	Keywords  []string  `bigquery:"keywords"`
	Filename  string    `bigquery:"filename"`
	CreatedAt time.Time `bigquery:"created_at"`
}

type bigqueryClient struct {
	client  *bigquery.Client
	dataset string
	table   string
}

// NewBigQuery creates a new BigQuery client bound to a dataset and table
func NewBigQuery(ctx context.Context, projectID, dataset, table string) (BigQuery, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create BigQuery client")
	}

	return &bigqueryClient{
		client:  client,
		dataset: dataset,
		table:   table,
	}, nil
}

func (bq *bigqueryClient) InsertAnalyses(ctx context.Context, analyses []*model.Analysis) error {
	rows := make([]*analysisRow, 0, len(analyses))
	for _, a := range analyses {
		rows = append(rows, &analysisRow{
			ID:        string(a.ID),
			Analysis:  a.Analysis,
			Findings:  a.Findings,
			Keywords:  a.Keywords,
			Filename:  a.ImageFilename(),
			CreatedAt: a.CreatedAt,
		})
	}

	inserter := bq.client.Dataset(bq.dataset).Table(bq.table).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return goerr.Wrap(err, "failed to insert analysis rows",
			goerr.V("dataset", bq.dataset), goerr.V("table", bq.table))
	}
	return nil
}

func (bq *bigqueryClient) KeywordCounts(ctx context.Context, limit int) ([]*KeywordCount, error) {
	query := fmt.Sprintf(
		"SELECT keyword, COUNT(*) AS count FROM `%s.%s`, UNNEST(keywords) AS keyword GROUP BY keyword ORDER BY count DESC LIMIT @limit",
		bq.dataset, bq.table)

	q := bq.client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "limit", Value: limit},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to run keyword count query")
	}

	var counts []*KeywordCount
	for {
		var row KeywordCount
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate keyword counts")
		}
		counts = append(counts, &row)
	}

	return counts, nil
}
