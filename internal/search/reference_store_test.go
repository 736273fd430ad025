package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/address-resolver/internal/gazetteer"
)

func testDataset() *gazetteer.Dataset {
	return &gazetteer.Dataset{
		Provinces: gazetteer.LevelData{Raw: []string{"Hà Nội", "Hồ Chí Minh", "Đà Nẵng"}},
		Districts: gazetteer.LevelData{Standard: []string{"Ba Đình, Hà Nội", "1, Hồ Chí Minh"}},
		Wards:     gazetteer.LevelData{Raw: []string{"Phúc Xá"}, Standard: []string{"Phúc Xá, Ba Đình, Hà Nội"}},
		Aliases:   map[string]string{"sg": "Hồ Chí Minh", "hn": "Hà Nội"},
	}
}

var filterPattern = regexp.MustCompile(`^(?:level = (\d+) AND )?kind = "(\w+)"$`)

// fakeMeili trả lời /indexes/:uid/search từ danh sách document trong bộ nhớ
func fakeMeili(t *testing.T, docs []ReferenceDoc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/indexes/reference/search" {
			http.NotFound(w, r)
			return
		}

		var req struct {
			Filter string `json:"filter"`
			Limit  int    `json:"limit"`
			Offset int    `json:"offset"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		m := filterPattern.FindStringSubmatch(req.Filter)
		require.NotNil(t, m, "unexpected filter %q", req.Filter)
		level := 0
		if m[1] != "" {
			level, _ = strconv.Atoi(m[1])
		}

		var matched []ReferenceDoc
		for _, d := range docs {
			if d.Kind == m[2] && (m[1] == "" || d.Level == level) {
				matched = append(matched, d)
			}
		}

		hits := []ReferenceDoc{}
		for i := req.Offset; i < len(matched) && i < req.Offset+req.Limit; i++ {
			hits = append(hits, matched[i])
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"hits":               hits,
			"offset":             req.Offset,
			"limit":              req.Limit,
			"estimatedTotalHits": len(matched),
			"processingTimeMs":   1,
			"query":              "",
		})
	}))
}

func TestReferenceStore_Load(t *testing.T) {
	ds := testDataset()
	srv := fakeMeili(t, Documents(ds))
	defer srv.Close()

	cfg := SearchConfig{Host: srv.URL, IndexName: "reference", PageSize: 2}
	store := NewReferenceStore(NewClient(cfg), cfg, zap.NewNop())

	got, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ds.Provinces, got.Provinces)
	assert.Equal(t, ds.Districts.Standard, got.Districts.Standard)
	assert.Empty(t, got.Districts.Raw)
	assert.Equal(t, ds.Wards, got.Wards)
	assert.Equal(t, ds.Aliases, got.Aliases)
	assert.Equal(t, ds.Version(), got.Version())
}

func TestReferenceStore_LoadEmptyIndex(t *testing.T) {
	srv := fakeMeili(t, nil)
	defer srv.Close()

	cfg := SearchConfig{Host: srv.URL, IndexName: "reference"}
	store := NewReferenceStore(NewClient(cfg), cfg, nil)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, gazetteer.ErrEmptyDataset)
}

func TestDocuments(t *testing.T) {
	docs := Documents(testDataset())
	require.Len(t, docs, 9)

	assert.Equal(t, ReferenceDoc{ID: docs[0].ID, Seq: 0, Level: 1, Kind: KindRaw, Line: "Hà Nội"}, docs[0])
	assert.Equal(t, KindStandard, docs[3].Kind)
	assert.Equal(t, 2, docs[3].Level)

	last := docs[len(docs)-1]
	assert.Equal(t, ReferenceDoc{ID: last.ID, Seq: 8, Level: 0, Kind: KindAlias, Line: "sg", Target: "Hồ Chí Minh"}, last)

	ids := make(map[string]struct{})
	for _, d := range docs {
		assert.Regexp(t, `^[0-9a-f]{24}$`, d.ID)
		ids[d.ID] = struct{}{}
	}
	assert.Len(t, ids, len(docs))
}

func TestParseHits(t *testing.T) {
	hits := []interface{}{
		map[string]interface{}{"id": "a", "seq": float64(3), "level": float64(2), "kind": "raw", "line": "Ba Đình"},
		map[string]interface{}{"id": "b", "kind": "raw"},
		"not a map",
	}

	docs := parseHits(hits)
	require.Len(t, docs, 1)
	assert.Equal(t, ReferenceDoc{ID: "a", Seq: 3, Level: 2, Kind: "raw", Line: "Ba Đình"}, docs[0])
}

func TestFilters(t *testing.T) {
	assert.Equal(t, `level = 3 AND kind = "standard"`, FilterLevelKind(3, KindStandard))
	assert.Equal(t, `kind = "alias"`, FilterKind(KindAlias))
}
