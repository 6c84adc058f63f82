package route_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"eventbr/src-server/city"
	"eventbr/src-server/model"
	"eventbr/src-server/route"
	"eventbr/src-server/utils"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	srv, client, _ := newTestEnv(t, false)
	return srv, client
}

// newTestEnv also hands back the AppState for tests that need to poke at
// the database behind the server.
func newTestEnv(t *testing.T, dev bool) (*httptest.Server, *http.Client, *utils.AppState) {
	t.Helper()
	t.Setenv("DEV", strconv.FormatBool(dev))

	rawDB, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	rawDB.SetMaxOpenConns(1)
	bunDB := bun.NewDB(rawDB, sqlitedialect.New())
	for _, m := range []interface{}{
		(*model.User)(nil),
		(*model.Event)(nil),
		(*model.Session)(nil),
	} {
		_, err := bunDB.NewCreateTable().Model(m).IfNotExists().Exec(context.Background())
		require.NoError(t, err)
	}

	citiesPath := filepath.Join(t.TempDir(), "cidades.json")
	require.NoError(t, os.WriteFile(citiesPath, []byte(`{
		"data": [
			{"Nome": "São Paulo", "Uf": "SP"},
			{"Nome": "Brasília", "Uf": "DF"},
			{"Nome": "Aracaju", "Uf": "SE"}
		]
	}`), 0o644))

	as := &utils.AppState{
		Config:      utils.NewConfig(),
		RawDB:       rawDB,
		BunDB:       bunDB,
		Cities:      city.Load(citiesPath),
		MetricChans: utils.NewMetric(),
	}

	muxer := http.NewServeMux()
	route.Auth(muxer, as)
	route.State(muxer, as)
	route.Cities(muxer, as)
	route.Events(muxer, as)

	srv := httptest.NewServer(muxer)
	t.Cleanup(srv.Close)
	t.Cleanup(func() { bunDB.Close() })

	return srv, newClient(t), as
}

// newClient builds an extra client with its own cookie jar, i.e. another
// browser talking to the same server.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method string, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, url, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var respBody bytes.Buffer
	_, err = respBody.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, respBody.Bytes()
}

func register(t *testing.T, client *http.Client, baseURL string, username string, password string) {
	t.Helper()
	resp, _ := doJSON(t, client, http.MethodPost, baseURL+"/auth/register", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func login(t *testing.T, client *http.Client, baseURL string, username string, password string) {
	t.Helper()
	resp, _ := doJSON(t, client, http.MethodPost, baseURL+"/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func validEventBody() map[string]any {
	return map[string]any{
		"name":        "Tech Fair",
		"venue":       "Expo Center Norte",
		"city":        "São Paulo (SP)",
		"startDate":   "2026-03-10",
		"endDate":     "2026-03-12",
		"attendance":  100,
		"description": "Feira de tecnologia",
		"category":    "Feira",
		"segment":     "Tecnologia",
	}
}
