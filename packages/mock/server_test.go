package mock

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/abdul-hamid-achik/factform/packages/facts"
	"github.com/abdul-hamid-achik/factform/packages/form"
	fhttp "github.com/abdul-hamid-achik/factform/packages/http"
)

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_AddFact(t *testing.T) {
	s := NewServer()
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/animals/facts", `{"fact":"The otter lives in the river"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := gjson.Get(rec.Body.String(), "id").String()
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	// same sentence in another case is the same fact
	rec = do(t, h, http.MethodPost, "/animals/facts", `{"fact":"the otter lives in the river"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, gjson.Get(rec.Body.String(), "id").String())
	assert.Equal(t, 1, s.Store().Len())
}

func TestServer_AddFact_Required(t *testing.T) {
	h := NewServer().Handler()

	for _, body := range []string{`{"fact":""}`, `{}`, `not json`, ``} {
		rec := do(t, h, http.MethodPost, "/animals/facts", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"message":"Fact sentence is required"}`, rec.Body.String(), body)
	}
}

func TestServer_GetAndDeleteFact(t *testing.T) {
	s := NewServer()
	h := s.Handler()
	id, _ := s.Store().Add("cats purr")

	rec := do(t, h, http.MethodGet, "/animals/facts/"+id.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"fact":"cats purr"}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/animals/facts/"+id.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"`+id.String()+`"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/animals/facts/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Fact not found"}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/animals/facts/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_InvalidFactID(t *testing.T) {
	h := NewServer().Handler()

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec := do(t, h, method, "/animals/facts/42", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, method)
		assert.JSONEq(t, `{"message":"Specified fact_id is not valid UUID"}`, rec.Body.String(), method)
	}
}

func TestServer_QueryFacts(t *testing.T) {
	s := NewServer()
	s.Store().Add("Cats purr")
	s.Store().Add("The otter lives in the river")
	s.Store().Add("A cat has whiskers")
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/animals?q=what+do+cats+do", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"question":"what do cats do","facts":["cats purr","a cat has whiskers"]}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/animals?q=zebras", "")
	assert.JSONEq(t, `{"question":"zebras","facts":[]}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/animals", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Question is required"}`, rec.Body.String())
}

func TestServer_UnknownRoutes(t *testing.T) {
	h := NewServer().Handler()

	rec := do(t, h, http.MethodGet, "/plants", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPut, "/animals/facts", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Allow"))
}

func TestServer_Page(t *testing.T) {
	h := NewServer(WithPage([]byte("<html></html>"))).Handler()

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html></html>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestServer_Delay(t *testing.T) {
	h := NewServer(WithDelay(30 * time.Millisecond)).Handler()

	start := time.Now()
	do(t, h, http.MethodGet, "/animals?q=cats", "")
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- NewServer().Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/animals?q=cats")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_WithFormClient(t *testing.T) {
	ts := httptest.NewServer(NewServer().Handler())
	defer ts.Close()

	doc, err := form.ParseString(`
<form id="addFactForm"><input name="fact" value="Otters hold hands"></form>
<form id="askForm"><input name="question" value="do otters hold hands?"></form>
<form id="factForm"><input name="fact_id" value=""></form>`)
	require.NoError(t, err)

	client := facts.NewClient(doc, fhttp.NewClient(), facts.NewEndpoints(ts.URL))
	ctx := context.Background()

	added := client.SubmitFact(ctx, "addFactForm").Wait()
	require.True(t, added.OK(), "%v", added.Err)
	assert.Equal(t, http.StatusCreated, added.Response.StatusCode)
	id := added.Response.Get("id").String()

	asked := client.QueryFacts(ctx, "askForm").Wait()
	require.True(t, asked.OK(), "%v", asked.Err)
	assert.Equal(t, "otters hold hands", asked.Response.Get("facts.0").String())

	require.NoError(t, doc.SetValue("factForm", "fact_id", id))
	fetched := client.FetchFact(ctx, "factForm").Wait()
	require.True(t, fetched.OK(), "%v", fetched.Err)
	assert.Equal(t, "otters hold hands", fetched.Response.Get("fact").String())

	removed := client.RemoveFact(ctx, "factForm").Wait()
	require.True(t, removed.OK(), "%v", removed.Err)

	missing := client.FetchFact(ctx, "factForm").Wait()
	assert.False(t, missing.OK())
	var statusErr *fhttp.StatusError
	require.ErrorAs(t, missing.Err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}
