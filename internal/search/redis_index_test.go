package search

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/lost-pet-registry/internal/model"
)

func newTestIndex(t *testing.T) (*RedisIndex, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisIndex(rdb), mr, rdb
}

func lostDoc(id string, lat, lng float64) Document {
	return Document{
		ObjectID: id,
		Name:     "Rex",
		Status:   model.StatusLost,
		Location: "Condesa",
		Lat:      &lat,
		Lng:      &lng,
	}
}

func TestRedisIndex_LostPetIsSearchable(t *testing.T) {
	idx, _, _ := newTestIndex(t)
	ctx := context.Background()

	if err := idx.Upsert(ctx, lostDoc("1", 19.4326, -99.1332)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	hits, err := idx.SearchNearby(ctx, 19.43, -99.13, 5000)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].ObjectID != "1" || hits[0].Name != "Rex" {
		t.Fatalf("unexpected hits: %+v", hits)
	}
	if hits[0].Lat == nil || hits[0].Lng == nil {
		t.Fatalf("coordinates not hydrated: %+v", hits[0])
	}
}

func TestRedisIndex_FoundUpsertDropsGeoMembership(t *testing.T) {
	idx, _, rdb := newTestIndex(t)
	ctx := context.Background()

	if err := idx.Upsert(ctx, lostDoc("1", 19.4326, -99.1332)); err != nil {
		t.Fatalf("upsert lost: %v", err)
	}

	// Marking the pet found must evict it from the geo set even though it
	// still carries coordinates.
	doc := lostDoc("1", 19.4326, -99.1332)
	doc.Status = model.StatusFound
	if err := idx.Upsert(ctx, doc); err != nil {
		t.Fatalf("upsert found: %v", err)
	}

	if n, err := rdb.ZCard(ctx, idx.geoKey).Result(); err != nil || n != 0 {
		t.Fatalf("expected empty geo set, got %d members (err %v)", n, err)
	}
	hits, err := idx.SearchNearby(ctx, 19.43, -99.13, 5000)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("found pet surfaced in search: %+v", hits)
	}
	if status, err := rdb.HGet(ctx, idx.docKey+"1", "status").Result(); err != nil || status != model.StatusFound {
		t.Fatalf("document status not replaced: %q (err %v)", status, err)
	}
}

func TestRedisIndex_StaleGeoMemberSkippedOnHydration(t *testing.T) {
	idx, _, rdb := newTestIndex(t)
	ctx := context.Background()

	if err := idx.Upsert(ctx, lostDoc("1", 19.4326, -99.1332)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Flip the hash behind the geo set's back, as a half-applied propagation
	// would. Hydration must drop the member rather than return it.
	if err := rdb.HSet(ctx, idx.docKey+"1", "status", model.StatusFound).Err(); err != nil {
		t.Fatalf("hset: %v", err)
	}

	hits, err := idx.SearchNearby(ctx, 19.43, -99.13, 5000)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("stale found member returned: %+v", hits)
	}
}

func TestRedisIndex_UpsertReplacesWholeDocument(t *testing.T) {
	idx, _, rdb := newTestIndex(t)
	ctx := context.Background()

	first := lostDoc("1", 19.4326, -99.1332)
	first.ImageURL = "https://img.example.test/rex.png"
	if err := idx.Upsert(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := lostDoc("1", 19.4326, -99.1332)
	second.Location = ""
	second.ImageURL = ""
	if err := idx.Upsert(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	h, err := rdb.HGetAll(ctx, idx.docKey+"1").Result()
	if err != nil {
		t.Fatalf("hgetall: %v", err)
	}
	if _, ok := h["image_url"]; ok {
		t.Fatalf("stale image_url survived the replace: %v", h)
	}
	if _, ok := h["location"]; ok {
		t.Fatalf("stale location survived the replace: %v", h)
	}
}

func TestRedisIndex_RemoveDeletesDocumentAndGeo(t *testing.T) {
	idx, _, rdb := newTestIndex(t)
	ctx := context.Background()

	if err := idx.Upsert(ctx, lostDoc("1", 19.4326, -99.1332)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := idx.Remove(ctx, "1"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if n, err := rdb.Exists(ctx, idx.docKey+"1").Result(); err != nil || n != 0 {
		t.Fatalf("document hash survived remove (n=%d err=%v)", n, err)
	}
	if n, err := rdb.ZCard(ctx, idx.geoKey).Result(); err != nil || n != 0 {
		t.Fatalf("geo member survived remove (n=%d err=%v)", n, err)
	}
}
