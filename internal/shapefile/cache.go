package shapefile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/vick25/ceedd-stream-backend/internal/geo"
)

// rdb is the optional feature-collection cache. Nil disables caching: every
// listing then re-extracts and re-parses the archives.
var rdb *redis.Client

const cacheTTL = 10 * time.Minute

// initCache opens Redis from environment configuration. Caching only turns
// on when REDIS_HOST is set.
func initCache() {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	rdb = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASS"),
	})
}

type featurePayload struct {
	Bbox              *geo.BBox                  `json:"bbox"`
	FeatureCollection *geojson.FeatureCollection `json:"feature_collection"`
}

func cacheKey(id uint) string { return fmt.Sprintf("shapefile:fc:%d", id) }

// featureJSON returns the marshaled bbox + feature collection for a record,
// via the cache when one is configured.
func featureJSON(ctx context.Context, rec ShapefileUpload) ([]byte, error) {
	key := cacheKey(rec.ID)
	if rdb != nil {
		if b, err := rdb.Get(ctx, key).Bytes(); err == nil {
			return b, nil
		}
	}

	bbox, fc, err := featureData(rec)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(featurePayload{Bbox: bbox, FeatureCollection: fc})
	if err != nil {
		return nil, err
	}

	if rdb != nil {
		rdb.Set(ctx, key, b, cacheTTL)
	}
	return b, nil
}

func dropCached(ctx context.Context, id uint) {
	if rdb != nil {
		rdb.Del(ctx, cacheKey(id))
	}
}
