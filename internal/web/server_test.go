package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/f3rmion/custseg/internal/record"
	"github.com/f3rmion/custseg/internal/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures the records a stub model is asked to predict.
type recorder struct {
	label any
	err   error
	seen  []record.Record
}

func (r *recorder) Predict(records []record.Record) ([]segment.Label, error) {
	r.seen = append(r.seen, records...)
	if r.err != nil {
		return nil, r.err
	}
	return []segment.Label{segment.NewLabel(r.label)}, nil
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestIndex_RendersControlsInOrder(t *testing.T) {
	h := NewServer(&recorder{label: 0}, "kmeans.yaml", nil).Handler(nil)

	rr := do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	last := -1
	for _, name := range record.Names() {
		idx := strings.Index(body, `name="`+name+`"`)
		require.GreaterOrEqual(t, idx, 0, name)
		assert.Greater(t, idx, last, name)
		last = idx
	}
	assert.Contains(t, body, "Review Entered Customer Information")
	assert.NotContains(t, body, "The predicted customer segment is")
}

func TestIndex_PrefillsFromQueryAndIgnoresUnknownKeys(t *testing.T) {
	h := NewServer(&recorder{label: 0}, "kmeans.yaml", nil).Handler(nil)

	rr := do(t, h, httptest.NewRequest(http.MethodGet, "/?utm_source=mail&Education=PhD&_=123", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `<option value="PhD" selected>`)

	// Known fields are still validated.
	rr = do(t, h, httptest.NewRequest(http.MethodGet, "/?Education=Bootcamp", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPredictForm_DefaultsScenario(t *testing.T) {
	stub := &recorder{label: 2}
	h := NewServer(stub, "kmeans.yaml", nil).Handler(nil)

	form := url.Values{"Education": {"Graduation"}, "Marital_Status": {"Married"}}
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := do(t, h, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "The predicted customer segment is: <strong>2</strong>")

	require.Len(t, stub.seen, 1)
	want := record.NewForm()
	require.NoError(t, want.SetText("Education", "Graduation"))
	require.NoError(t, want.SetText("Marital_Status", "Married"))
	assert.Equal(t, want.Record(), stub.seen[0])
}

func TestPredictForm_ClampsNumbers(t *testing.T) {
	stub := &recorder{label: 1}
	h := NewServer(stub, "kmeans.yaml", nil).Handler(nil)

	form := url.Values{"Income": {"5000000"}, "Age": {"3"}}
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := do(t, h, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, stub.seen, 1)
	assert.Equal(t, 200000, stub.seen[0].Income)
	assert.Equal(t, 18, stub.seen[0].Age)
}

func TestPredictForm_RejectsUnknownCategory(t *testing.T) {
	stub := &recorder{label: 1}
	h := NewServer(stub, "kmeans.yaml", nil).Handler(nil)

	form := url.Values{"Education": {"Bootcamp"}}
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := do(t, h, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, stub.seen)
}

func TestPredictForm_ModelErrorIsShown(t *testing.T) {
	h := NewServer(&recorder{err: errors.New("centroid mismatch")}, "kmeans.yaml", nil).Handler(nil)

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := do(t, h, req)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Sorry, something went wrong during the prediction.")
	assert.Contains(t, body, "centroid mismatch")

	// The server keeps serving after a failed prediction.
	rr = do(t, h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestPredictJSON(t *testing.T) {
	h := NewServer(&recorder{label: "premium"}, "kmeans.yaml", nil).Handler(nil)

	body := bytes.NewBufferString(`{"Education": "PhD", "Income": 120000, "Complain": 1}`)
	rr := do(t, h, httptest.NewRequest(http.MethodPost, "/api/predict", body))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Segment string        `json:"segment"`
		Record  record.Record `json:"record"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "premium", resp.Segment)
	assert.Equal(t, "PhD", resp.Record.Education)
	assert.Equal(t, 120000, resp.Record.Income)
	assert.Equal(t, 1, resp.Record.Complain)
}

func TestPredictJSON_Errors(t *testing.T) {
	h := NewServer(&recorder{err: errors.New("bad model")}, "kmeans.yaml", nil).Handler(nil)

	rr := do(t, h, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"Pets": 1}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "bad model")
}

func TestSchema(t *testing.T) {
	h := NewServer(&recorder{}, "kmeans.yaml", nil).Handler(nil)

	rr := do(t, h, httptest.NewRequest(http.MethodGet, "/api/schema", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var fields []record.Field
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fields))
	require.Len(t, fields, record.NumFields)
	assert.Equal(t, "Day_Joined", fields[record.NumFields-1].Name)
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	h := NewServer(&recorder{}, "kmeans.yaml", nil).Handler(&buf)

	do(t, h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Contains(t, buf.String(), "GET /healthz")
}
