package calcapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scicalc/internal/session"
	"scicalc/internal/testutil"
)

func newTestRouter(t *testing.T) (http.Handler, *session.Manager) {
	t.Helper()
	manager := session.NewManager(session.NewMemory())
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(manager))
	return r, manager
}

func createSession(t *testing.T, router http.Handler) StateResponse {
	t.Helper()
	rr := testutil.ExecuteRequest(testutil.NewJSONRequest(http.MethodPost, "/calculator/sessions", ""), router)
	testutil.CheckResponseCode(t, http.StatusCreated, rr.Code)
	var got StateResponse
	testutil.DecodeJSONBody(t, rr.Body, &got)
	require.NotEmpty(t, got.SessionID)
	return got
}

func TestCreateAndGetSession(t *testing.T) {
	router, _ := newTestRouter(t)
	created := createSession(t, router)
	assert.Equal(t, "0", created.Display)
	assert.True(t, created.State.AwaitingFreshOperand)

	rr := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/calculator/sessions/"+created.SessionID, nil), router)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)
	var got StateResponse
	testutil.DecodeJSONBody(t, rr.Body, &got)
	assert.Equal(t, created, got)
}

func TestGetUnknownSessionReturns404(t *testing.T) {
	router, _ := newTestRouter(t)
	rr := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/calculator/sessions/nope", nil), router)
	testutil.CheckResponseCode(t, http.StatusNotFound, rr.Code)

	msg, _ := testutil.DecodeError(t, rr.Body)
	assert.Equal(t, "session not found", msg)
}

func TestDeleteSession(t *testing.T) {
	router, manager := newTestRouter(t)
	created := createSession(t, router)
	require.Equal(t, 1, manager.Count())

	path := "/calculator/sessions/" + created.SessionID
	rr := testutil.ExecuteRequest(httptest.NewRequest(http.MethodDelete, path, nil), router)
	testutil.CheckResponseCode(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 0, manager.Count())

	rr = testutil.ExecuteRequest(httptest.NewRequest(http.MethodDelete, path, nil), router)
	testutil.CheckResponseCode(t, http.StatusNotFound, rr.Code)
}

func TestKeys(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		display string
		kinds   []string
	}{
		{
			name:    "labels",
			body:    `{"tokens":["2","xʸ","1","0","="]}`,
			display: "1024",
			kinds:   []string{"", "", "", "", ""},
		},
		{
			name:    "input line expands numbers",
			body:    `{"input":"12.5 × 2 ="}`,
			display: "25",
			kinds:   []string{"", "", "", "", "", "", ""},
		},
		{
			name:    "division by zero stays 200",
			body:    `{"input":"5 / 0 ="}`,
			display: "Error",
			kinds:   []string{"", "", "", "division_by_zero"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newTestRouter(t)
			created := createSession(t, router)

			rr := testutil.ExecuteRequest(testutil.NewJSONRequest(http.MethodPost, "/calculator/sessions/"+created.SessionID+"/keys", tc.body), router)
			testutil.CheckResponseCode(t, http.StatusOK, rr.Code)

			var got KeysResponse
			testutil.DecodeJSONBody(t, rr.Body, &got)
			assert.Equal(t, created.SessionID, got.SessionID)
			assert.Equal(t, tc.display, got.Display)
			assert.Equal(t, tc.display, got.State.Display.String())

			kinds := make([]string, 0, len(got.Keys))
			for _, k := range got.Keys {
				kinds = append(kinds, k.ErrorKind)
			}
			assert.Equal(t, tc.kinds, kinds)
		})
	}
}

func TestKeysPersistAcrossRequests(t *testing.T) {
	router, _ := newTestRouter(t)
	created := createSession(t, router)
	path := "/calculator/sessions/" + created.SessionID + "/keys"

	rr := testutil.ExecuteRequest(testutil.NewJSONRequest(http.MethodPost, path, `{"input":"7 +"}`), router)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)
	rr = testutil.ExecuteRequest(testutil.NewJSONRequest(http.MethodPost, path, `{"input":"8 ="}`), router)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)

	var got KeysResponse
	testutil.DecodeJSONBody(t, rr.Body, &got)
	assert.Equal(t, "15", got.Display)
}

func TestKeysRejectsBadInput(t *testing.T) {
	router, _ := newTestRouter(t)
	created := createSession(t, router)
	path := "/calculator/sessions/" + created.SessionID + "/keys"

	for _, body := range []string{`{`, `{"tokens":["2","bogus"]}`, `{"input":"  "}`, `{}`} {
		rr := testutil.ExecuteRequest(testutil.NewJSONRequest(http.MethodPost, path, body), router)
		testutil.CheckResponseCode(t, http.StatusBadRequest, rr.Code)
	}

	// A rejected request leaves the session untouched.
	rr := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/calculator/sessions/"+created.SessionID, nil), router)
	var got StateResponse
	testutil.DecodeJSONBody(t, rr.Body, &got)
	assert.Equal(t, created.State, got.State)
}

func TestKeysUnknownSession(t *testing.T) {
	router, _ := newTestRouter(t)
	rr := testutil.ExecuteRequest(testutil.NewJSONRequest(http.MethodPost, "/calculator/sessions/missing/keys", `{"input":"1"}`), router)
	testutil.CheckResponseCode(t, http.StatusNotFound, rr.Code)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		code    int
		display string
		kind    string
	}{
		{name: "divide", body: `{"a":6,"b":4,"op":"/"}`, code: http.StatusOK, display: "1.5"},
		{name: "power", body: `{"a":2,"b":10,"op":"^"}`, code: http.StatusOK, display: "1024"},
		{name: "glyph", body: `{"a":3,"b":4,"op":"×"}`, code: http.StatusOK, display: "12"},
		{name: "division by zero", body: `{"a":1,"b":0,"op":"/"}`, code: http.StatusUnprocessableEntity, kind: "division_by_zero"},
		{name: "unknown operator", body: `{"a":1,"b":2,"op":"mod"}`, code: http.StatusBadRequest},
		{name: "bad json", body: `{"a":`, code: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newTestRouter(t)
			rr := testutil.ExecuteRequest(testutil.NewJSONRequest(http.MethodPost, "/calculator/evaluate", tc.body), router)
			testutil.CheckResponseCode(t, tc.code, rr.Code)

			var body map[string]any
			testutil.DecodeJSONBody(t, rr.Body, &body)
			if tc.code == http.StatusOK {
				assert.Equal(t, tc.display, body["display"])
				assert.NotContains(t, body, "request_id")
				return
			}
			assert.Contains(t, body, "error")
			if tc.kind != "" {
				assert.Equal(t, tc.kind, body["kind"])
			}
		})
	}
}

func TestScientific(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		code    int
		display string
		kind    string
	}{
		{name: "sqrt", body: `{"function":"sqrt","x":16}`, code: http.StatusOK, display: "4"},
		{name: "sin degrees by default", body: `{"function":"sin","x":90}`, code: http.StatusOK, display: "1"},
		{name: "factorial", body: `{"function":"n!","x":5}`, code: http.StatusOK, display: "120"},
		{name: "ln of negative", body: `{"function":"ln","x":-1}`, code: http.StatusUnprocessableEntity, kind: "domain"},
		{name: "unknown function", body: `{"function":"sinh","x":1}`, code: http.StatusBadRequest},
		{name: "unknown angle mode", body: `{"function":"sin","x":1,"angle_mode":"GRAD"}`, code: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newTestRouter(t)
			rr := testutil.ExecuteRequest(testutil.NewJSONRequest(http.MethodPost, "/calculator/scientific", tc.body), router)
			testutil.CheckResponseCode(t, tc.code, rr.Code)

			var body map[string]any
			testutil.DecodeJSONBody(t, rr.Body, &body)
			if tc.code == http.StatusOK {
				assert.Equal(t, tc.display, body["display"])
				assert.Equal(t, "DEG", body["angle_mode"])
				return
			}
			if tc.kind != "" {
				assert.Equal(t, tc.kind, body["kind"])
			}
		})
	}
}

func TestRegisterCollectorsReportsSessionCount(t *testing.T) {
	router, manager := newTestRouter(t)
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterCollectors(reg, manager))

	createSession(t, router)
	createSession(t, router)

	expected := `
# HELP scicalc_active_sessions Calculator sessions held in memory by this process.
# TYPE scicalc_active_sessions gauge
scicalc_active_sessions 2
`
	require.NoError(t, promtestutil.GatherAndCompare(reg, strings.NewReader(expected), "scicalc_active_sessions"))

	assert.Error(t, RegisterCollectors(reg, manager), "registering twice must fail")
}
