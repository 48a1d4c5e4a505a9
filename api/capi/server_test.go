package capi

import (
	"cndash/dashboard"
	"cndash/database"
	"cndash/structs"
	"compress/gzip"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	db, err := database.NewSnapshotDB(t.TempDir())
	require.NoError(t, err)

	kv, err := database.OpenInMemoryKV()
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	_, err = database.ImportSnapshot(db, database.SnapshotFile{
		Alliances: []structs.Alliance{{ID: 10, Identifier: "home"}, {ID: 20, Identifier: "enemy"}},
		Nations: []structs.NationRecord{
			{ID: 1, RulerName: "A", NationName: "Aland", AllianceID: 10, Strength: "10,000", Technology: "600", Infrastructure: "2,000", Activity: "recent"},
			{ID: 2, RulerName: "B", NationName: "Bland", AllianceID: 10, Strength: "8,000", Technology: "100", Infrastructure: "3,500", Activity: "recent"},
			{ID: 3, RulerName: "C", NationName: "Cland", AllianceID: 10, Strength: "3,000", Technology: "10", Infrastructure: "500", Activity: "recent"},
			{ID: 4, RulerName: "D", NationName: "Dland", AllianceID: 20, Strength: "5,000", Technology: "0", Infrastructure: "0", Activity: "recent"},
		},
		Wars: []structs.WarRecord{
			{ID: 9, DeclaringID: 4, ReceivingID: 3, Status: "active", StartDate: "2025-01-02", EndDate: "2025-01-09"},
		},
	}, time.UTC)
	require.NoError(t, err)

	svc := dashboard.New(database.NewRepository(db, kv), time.UTC).WithClock(func() time.Time { return testNow })
	return NewMux(svc)
}

func do(t *testing.T, h http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, r))

	return rec
}

func TestAidRecommendationsEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/alliances/10/aid/recommendations", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(REQUEST_ID_HEADER))

	var res dashboard.AidResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.Recommendations, 6)
	assert.Equal(t, 3, res.SlotCounts.Nations)
}

func TestInvalidAndUnknownIDs(t *testing.T) {
	h := newTestHandler(t)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/alliances/abc/aid/recommendations", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/alliances/-1/nations", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/alliances/10/aid/recommendations?crossAlliance=maybe", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/alliances/99/nations", "").Code)
}

func TestNationsEndpointGzipAndETag(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/alliances/10/nations", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	gz, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)

	var nations []dashboard.CategorizedNation
	require.NoError(t, json.NewDecoder(gz).Decode(&nations))
	require.Len(t, nations, 3)
	assert.Equal(t, "tech-buyer", string(nations[0].Role))

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req = httptest.NewRequest(http.MethodGet, "/alliances/10/nations", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestSaveSlotsEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPut, "/nations/1/slots", `{"sendCash":2,"getTech":3,"send_priority":1,"receive_priority":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dashboard.SaveResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Config.NationID)
	assert.Empty(t, res.Warning)

	// Writes are never cached, so a repeated PUT can't be answered with a 304.
	assert.Empty(t, rec.Header().Get("ETag"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	sum := fmt.Sprintf(`"%x"`, sha1.Sum(rec.Body.Bytes()))
	req := httptest.NewRequest(http.MethodPut, "/nations/1/slots", strings.NewReader(`{"sendCash":2,"getTech":3,"send_priority":1,"receive_priority":2}`))
	req.Header.Set("If-None-Match", sum)
	again := httptest.NewRecorder()
	h.ServeHTTP(again, req)
	assert.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, rec.Body.String(), again.Body.String())

	rec = do(t, h, http.MethodPut, "/nations/1/slots", `{"sendCash":6,"send_priority":1,"receive_priority":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "over the 5 slot limit without DRA")

	rec = do(t, h, http.MethodPut, "/nations/404/slots", `{"send_priority":1,"receive_priority":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPut, "/nations/1/slots", `{"bogus":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStaggerEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/stagger?friendly=10&target=20&max=1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var entries []dashboard.StaggerEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 4, entries[0].DefendingNation.ID)
	assert.Equal(t, "empty", string(entries[0].StaggerStatus))
	assert.Equal(t, 2, entries[0].TotalEligible, "nation 3 is already fighting the defender")
	assert.Len(t, entries[0].EligibleAttackers, 1)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/stagger?friendly=10", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/stagger?friendly=10&target=20&max=-2", "").Code)
}

func TestStaggerEndpointReportsFirstBadFlag(t *testing.T) {
	h := newTestHandler(t)

	for range BURST {
		rec := do(t, h, http.MethodGet, "/stagger?friendly=10&target=20&assignOnlyPositive=maybe&hideAnarchy=nope&hidePeaceMode=2x", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body errorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body.Error, "hideAnarchy")
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestHandler(t)

	codes := []int{}
	for range SLOTS_RPM {
		codes = append(codes, do(t, h, http.MethodPut, "/nations/1/slots", `{"send_priority":1,"receive_priority":1}`).Code)
	}

	assert.Contains(t, codes, http.StatusTooManyRequests)
	assert.Equal(t, http.StatusOK, codes[0])
}
