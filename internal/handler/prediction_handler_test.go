package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/wifi-positioning-go/internal/classifier"
	"github.com/jengzang/wifi-positioning-go/internal/fingerprint"
	"github.com/jengzang/wifi-positioning-go/internal/service"
)

// countingClassifier records how often the underlying model is invoked.
type countingClassifier struct {
	classifier.Classifier
	calls int
}

func (c *countingClassifier) PredictProba(vector []float64) ([]float64, error) {
	c.calls++
	return c.Classifier.PredictProba(vector)
}

func newTestBundle(t *testing.T) (*service.Artifacts, *countingClassifier) {
	t.Helper()

	model := classifier.NewKNN(3)
	require.NoError(t, model.Train([][]float64{
		{-40, -110}, {-42, -108}, {-110, -40}, {-108, -42},
	}, []int{0, 0, 1, 1}))
	counting := &countingClassifier{Classifier: model}

	bundle := &service.Artifacts{
		Schema: fingerprint.NewSchema([]string{"aa:bb:cc:", "dd:ee:ff:"}),
		Labels: fingerprint.FitLabels([]string{"Kitchen", "Office"}),
		Model:  counting,
	}
	return bundle, counting
}

func newTestService(t *testing.T) (*service.PredictionService, *countingClassifier) {
	t.Helper()

	bundle, counting := newTestBundle(t)
	svc, err := service.NewPredictionService(bundle, nil, nil)
	require.NoError(t, err)
	return svc, counting
}

func newPredictRouter(t *testing.T) (*gin.Engine, *countingClassifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, counting := newTestService(t)
	h := NewPredictionHandler(svc)

	r := gin.New()
	r.POST("/api/v1/predict", h.Predict)
	r.GET("/api/v1/predictions/latest", h.Latest)
	return r, counting
}

func TestPredict_Success(t *testing.T) {
	r, counting := newPredictRouter(t)

	body := `{"scans":[{"bssid":"AA-BB-CC","rssi":-41},{"bssid":"ff:ff:ff:","rssi":-80}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, counting.calls)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Location   string  `json:"location"`
			Confidence float64 `json:"confidence"`
			MatchedAPs int     `json:"matched_aps"`
			TotalAPs   int     `json:"total_aps"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "Kitchen", resp.Data.Location)
	assert.Equal(t, 1, resp.Data.MatchedAPs)
	assert.Equal(t, 2, resp.Data.TotalAPs)
}

func TestPredict_LegacyAccessPointsKey(t *testing.T) {
	r, _ := newPredictRouter(t)

	body := `{"access_points":[{"bssid":"dd:ee:ff:","rssi":"-41"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Office")
}

func TestPredict_RejectedWithoutScans(t *testing.T) {
	r, counting := newPredictRouter(t)

	for _, body := range []string{`{}`, `{"scans":[]}`, `{"scans":[],"access_points":[]}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}

	// The classifier is never invoked for a rejected request.
	assert.Equal(t, 0, counting.calls)
}

func TestPredict_MalformedJSON(t *testing.T) {
	r, counting := newPredictRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(`{"scans":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, counting.calls)
}

func TestLatest_EmptyThenPopulated(t *testing.T) {
	r, _ := newPredictRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/predictions/latest", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	body := `{"scans":[{"bssid":"aa:bb:cc:","rssi":-40}]}`
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/predictions/latest", nil))
	assert.Contains(t, w.Body.String(), "Kitchen")
}
