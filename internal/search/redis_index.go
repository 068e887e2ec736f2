package search

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/lost-pet-registry/internal/model"
)

// RedisIndex implements PetIndex on top of Redis. Each pet has a hash at
// pets:doc:<id> holding the full document, and the geo set pets:geo holds
// only pets that are both lost and carry coordinates. Keeping found pets out
// of the geo set makes the status filter structural: a proximity search can
// only ever see lost pets.
type RedisIndex struct {
	rdb    *redis.Client
	docKey string // hash key prefix, id appended
	geoKey string // geo set of lost pets with coordinates
}

func NewRedisIndex(rdb *redis.Client) *RedisIndex {
	return &RedisIndex{rdb: rdb, docKey: "pets:doc:", geoKey: "pets:geo"}
}

// Upsert fully replaces the document for doc.ObjectID: the old hash is
// deleted before the new fields are written so stale fields from a previous
// propagation cannot survive, and geo membership is recomputed from scratch.
func (x *RedisIndex) Upsert(ctx context.Context, doc Document) error {
	fields := map[string]interface{}{
		"name":   doc.Name,
		"status": doc.Status,
	}
	if doc.Location != "" {
		fields["location"] = doc.Location
	}
	if doc.ImageURL != "" {
		fields["image_url"] = doc.ImageURL
	}
	if doc.Lat != nil && doc.Lng != nil {
		fields["lat"] = strconv.FormatFloat(*doc.Lat, 'f', -1, 64)
		fields["lng"] = strconv.FormatFloat(*doc.Lng, 'f', -1, 64)
	}

	pipe := x.rdb.TxPipeline()
	pipe.Del(ctx, x.docKey+doc.ObjectID)
	pipe.HSet(ctx, x.docKey+doc.ObjectID, fields)
	if doc.Status == model.StatusLost && doc.Lat != nil && doc.Lng != nil {
		pipe.GeoAdd(ctx, x.geoKey, &redis.GeoLocation{
			Name:      doc.ObjectID,
			Latitude:  *doc.Lat,
			Longitude: *doc.Lng,
		})
	} else {
		pipe.ZRem(ctx, x.geoKey, doc.ObjectID)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Remove deletes the document and its geo membership.
func (x *RedisIndex) Remove(ctx context.Context, objectID string) error {
	pipe := x.rdb.TxPipeline()
	pipe.Del(ctx, x.docKey+objectID)
	pipe.ZRem(ctx, x.geoKey, objectID)
	_, err := pipe.Exec(ctx)
	return err
}

// SearchNearby runs a GEOSEARCH over the lost-pet geo set, ordered by
// distance ascending, then hydrates each hit from its document hash. Members
// whose hash has vanished or no longer reads "lost" are skipped rather than
// returned half-formed.
func (x *RedisIndex) SearchNearby(ctx context.Context, lat, lng, radiusMeters float64) ([]Document, error) {
	ids, err := x.rdb.GeoSearch(ctx, x.geoKey, &redis.GeoSearchQuery{
		Latitude:   lat,
		Longitude:  lng,
		Radius:     radiusMeters,
		RadiusUnit: "m",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Document, 0, len(ids))
	for _, id := range ids {
		h, err := x.rdb.HGetAll(ctx, x.docKey+id).Result()
		if err != nil {
			return nil, err
		}
		if len(h) == 0 || h["status"] != model.StatusLost {
			continue
		}
		doc := Document{
			ObjectID: id,
			Name:     h["name"],
			Status:   h["status"],
			Location: h["location"],
			ImageURL: h["image_url"],
		}
		if latS, lngS := h["lat"], h["lng"]; latS != "" && lngS != "" {
			if la, err1 := strconv.ParseFloat(latS, 64); err1 == nil {
				if ln, err2 := strconv.ParseFloat(lngS, 64); err2 == nil {
					doc.Lat, doc.Lng = &la, &ln
				}
			}
		}
		out = append(out, doc)
	}
	return out, nil
}
