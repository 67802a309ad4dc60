package cachedresults

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/travigo/liverail/pkg/dataaggregator/query"
	"github.com/travigo/liverail/pkg/dataaggregator/source"
)

type BoardClient interface {
	ArrivalsBoard(ctx context.Context, station string, fromOrigin string, rows int) (*ctdf.Board, error)
	DeparturesBoard(ctx context.Context, station string, toDestination string, rows int) (*ctdf.Board, error)
}

// BoardFallback stores every fetched board and serves the last good copy only when a fetch fails
type BoardFallback struct {
	Boards BoardClient
	Cache  *Cache
}

func (b *BoardFallback) ArrivalsBoard(ctx context.Context, station string, fromOrigin string, rows int) (*ctdf.Board, error) {
	return b.lookup(ctx, BoardKey(string(query.BoardTypeArrivals), station, fromOrigin), func() (*ctdf.Board, error) {
		return b.Boards.ArrivalsBoard(ctx, station, fromOrigin, rows)
	})
}

func (b *BoardFallback) DeparturesBoard(ctx context.Context, station string, toDestination string, rows int) (*ctdf.Board, error) {
	return b.lookup(ctx, BoardKey(string(query.BoardTypeDepartures), station, toDestination), func() (*ctdf.Board, error) {
		return b.Boards.DeparturesBoard(ctx, station, toDestination, rows)
	})
}

func (b *BoardFallback) lookup(ctx context.Context, key string, fetch func() (*ctdf.Board, error)) (*ctdf.Board, error) {
	board, err := fetch()

	if b.Cache == nil {
		return board, err
	}

	if err == nil {
		if putErr := b.Cache.Put(ctx, key, board, BoardFreshness); putErr != nil {
			log.Error().Err(putErr).Str("key", key).Msg("Failed to cache board")
		}

		return board, nil
	}

	if !source.IsCacheRecoverable(err) {
		return nil, err
	}

	var cachedBoard ctdf.Board
	lookup, ok := b.Cache.Get(ctx, key, &cachedBoard, BoardFreshness)
	if !ok {
		return nil, err
	}

	log.Warn().Err(err).Str("key", key).Time("fetched", lookup.FetchedAt).Msg("Serving cached board after fetch failure")

	return &cachedBoard, nil
}
