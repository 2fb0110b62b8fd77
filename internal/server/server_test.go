package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/KaramelBytes/bmireport/internal/dashboard"
	"github.com/KaramelBytes/bmireport/internal/dataset"
)

const testCSV = "country,year,sex,age_group,region,mean_body_mass_index\r\n" +
	"Japan,1975,female,25-34,East Asia,21.0\r\n" +
	"Japan,2016,female,25-34,East Asia,22.0\r\n" +
	"Tonga,1975,female,25-34,Pacific,28.0\r\n" +
	"Tonga,2016,female,25-34,Pacific,34.0\r\n" +
	"Chad,1975,male,18-24,Africa,18.0\r\n" +
	"Chad,2016,male,18-24,Africa,20.5\r\n"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

func newTestRouter(t *testing.T, csv string) *gin.Engine {
	t.Helper()
	ds, err := dataset.Parse("data/bmi.csv", []byte(csv))
	require.NoError(t, err)
	return NewRouter(nil, dashboard.New(ds, dashboard.Options{ReferenceYear: 2024}, nil))
}

func do(t *testing.T, r http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t, testCSV), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 6, decode(t, rec)["rows"])
}

func TestDatasetLimit(t *testing.T) {
	r := newTestRouter(t, testCSV)

	body := decode(t, do(t, r, http.MethodGet, "/api/dataset", ""))
	assert.Len(t, body["records"], 5)
	assert.EqualValues(t, 6, body["rows"])

	body = decode(t, do(t, r, http.MethodGet, "/api/dataset?limit=2", ""))
	assert.Len(t, body["records"], 2)

	rec := do(t, r, http.MethodGet, "/api/dataset?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "limit", decode(t, rec)["field"])
}

func TestDatasetCSVIsByteFaithful(t *testing.T) {
	rec := do(t, newTestRouter(t, testCSV), http.MethodGet, "/api/dataset.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testCSV, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="bmi.csv"`)
}

func TestOptions(t *testing.T) {
	body := decode(t, do(t, newTestRouter(t, testCSV), http.MethodGet, "/api/options", ""))
	assert.Equal(t, []any{"Chad", "Japan", "Tonga"}, body["countries"])
	assert.Equal(t, []any{"female", "male"}, body["sexes"])
	limits := body["limits"].(map[string]any)
	assert.EqualValues(t, 2024, limits["max_birth_year"])
}

func TestTrendsAndGroups(t *testing.T) {
	r := newTestRouter(t, testCSV)
	body := decode(t, do(t, r, http.MethodGet, "/api/trends", ""))
	assert.Len(t, body["global"], 2)
	assert.Len(t, body["by_region"], 6)

	body = decode(t, do(t, r, http.MethodGet, "/api/groups?by=region", ""))
	assert.Len(t, body["rows"], 3)

	rec := do(t, r, http.MethodGet, "/api/groups?by=planet", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDistribution(t *testing.T) {
	r := newTestRouter(t, testCSV)
	body := decode(t, do(t, r, http.MethodGet, "/api/distribution/2016", ""))
	assert.EqualValues(t, 3, body["countries"])
	assert.Len(t, body["buckets"], 4)

	rec := do(t, r, http.MethodGet, "/api/distribution/later", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummary(t *testing.T) {
	body := decode(t, do(t, newTestRouter(t, testCSV), http.MethodGet, "/api/summary", ""))
	assert.EqualValues(t, 2016, body["last_year"])

	empty := strings.SplitN(testCSV, "\r\n", 2)[0] + "\r\n"
	rec := do(t, newTestRouter(t, empty), http.MethodGet, "/api/summary", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReport(t *testing.T) {
	r := newTestRouter(t, testCSV)
	rec := do(t, r, http.MethodGet, "/api/report?format=markdown", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rec.Body.String(), "# Global BMI Report")

	body := decode(t, do(t, r, http.MethodGet, "/api/report", ""))
	assert.NotEmpty(t, body["id"])

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/report?format=pdf", "").Code)
}

func TestCalculate(t *testing.T) {
	r := newTestRouter(t, testCSV)
	rec := do(t, r, http.MethodPost, "/api/bmi",
		`{"country":"japan","sex":"female","birth_year":1995,"height_cm":160,"weight_kg":50}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["category"])
	assert.Equal(t, "25-34", body["age_group"])
	assert.Equal(t, "Japan BMI (Female & 1995)", body["country_label"])
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	r := newTestRouter(t, testCSV)
	cases := map[string]string{
		"country":   `{"country":"Atlantis","sex":"female","birth_year":1995,"height_cm":160,"weight_kg":50}`,
		"height_cm": `{"country":"Japan","sex":"female","birth_year":1995,"height_cm":0,"weight_kg":50}`,
	}
	for field, body := range cases {
		rec := do(t, r, http.MethodPost, "/api/bmi", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, field)
		assert.Equal(t, field, decode(t, rec)["field"])
	}
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/api/bmi", `{"country":`).Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ds, err := dataset.Parse("bmi.csv", []byte(testCSV))
	require.NoError(t, err)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ln, nil, dashboard.New(ds, dashboard.Options{}, nil))
	}()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	client.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}
