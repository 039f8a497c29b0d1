package postgrest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeflare/pgrst/internal/testutil"
)

func TestExecutePlain(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Respond(200, `[{"a":1},{"a":2}]`, map[string]string{"Content-Range": "0-1/2"})

	client := NewClient(srv.URL, nil)
	res, err := client.From("things").Select("a").Eq("b", "1").Execute(context.Background())
	require.NoError(t, err)

	assert.JSONEq(t, `[{"a":1},{"a":2}]`, string(res.Data))
	require.NotNil(t, res.Count)
	assert.EqualValues(t, 2, *res.Count)

	last := srv.Last()
	assert.Equal(t, "GET", last.Method)
	assert.Equal(t, "/things", last.Path)
	assert.Equal(t, "a", last.Query.Get("select"))
	assert.Equal(t, "eq.1", last.Query.Get("b"))
}

func TestExecuteNoContentRangeMeansNoCount(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Respond(200, `[]`, nil)

	res, err := NewClient(srv.URL, nil).From("things").Select().Execute(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res.Count)
}

func TestExecuteUnknownTotalMeansNoCount(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Respond(200, `[]`, map[string]string{"Content-Range": "0-9/*"})

	res, err := NewClient(srv.URL, nil).From("things").Select().Execute(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res.Count)
}

func TestExecuteAPIError(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Respond(404, `{"message": "not found"}`, nil)

	_, err := NewClient(srv.URL, nil).From("things").Select().Execute(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.NotNil(t, apiErr.Message)
	assert.Equal(t, "not found", *apiErr.Message)
	assert.Nil(t, apiErr.Code)
	assert.Nil(t, apiErr.Details)
	assert.Nil(t, apiErr.Hint)
}

func TestExecuteErrorFields(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Respond(400, `{"message":"bad","code":"PGRST100","details":"d","hint":"h"}`, nil)

	_, err := NewClient(srv.URL, nil).From("things").Select().Execute(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "PGRST100", *apiErr.Code)
	assert.Equal(t, "d", *apiErr.Details)
	assert.Equal(t, "h", *apiErr.Hint)
	assert.Contains(t, apiErr.Error(), "bad")
}

func TestExecuteUnparseableErrorBody(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Respond(500, `upstream exploded`, nil)

	_, err := NewClient(srv.URL, nil).From("things").Select().Execute(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.NotNil(t, apiErr.Message)
	assert.Contains(t, *apiErr.Message, "upstream exploded")
}

func TestExecuteMalformedSuccessBody(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Respond(200, `{"truncated`, nil)

	_, err := NewClient(srv.URL, nil).From("things").Select().Execute(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.NotNil(t, apiErr.Message)
	assert.Contains(t, *apiErr.Message, "invalid JSON")
}

func zeroRowsBody() string {
	return `{"message":"JSON object requested, multiple (or no) rows returned","details":"Results contain 0 rows, application/vnd.pgrst.object+json requires 1 row"}`
}

func TestMaybeSingleSuppressesZeroRows(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Respond(406, zeroRowsBody(), nil)

	res, err := NewClient(srv.URL, nil).From("things").Select().Eq("id", "42").MaybeSingle().Execute(context.Background())
	require.NoError(t, err)

	assert.Nil(t, res.Data)
	require.NotNil(t, res.Count)
	assert.EqualValues(t, 0, *res.Count)
}

func TestSinglePropagatesZeroRows(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Respond(406, zeroRowsBody(), nil)

	_, err := NewClient(srv.URL, nil).From("things").Select().Eq("id", "42").Single().Execute(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.zeroRows())
}

func TestMaybeSinglePropagatesOtherErrors(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Respond(401, `{"message":"JWT expired"}`, nil)

	_, err := NewClient(srv.URL, nil).From("things").Select().MaybeSingle().Execute(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "JWT expired", *apiErr.Message)
}

func TestSingleModeHeadersOnTheWire(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Respond(200, `{"a":1}`, nil)

	_, err := NewClient(srv.URL, nil).From("things").Select().MaybeSingle().Execute(context.Background())
	require.NoError(t, err)

	last := srv.Last()
	assert.Equal(t, singleAcceptHeader, last.Header.Get("Accept"))
	// the maybe-single marker stays internal
	assert.Empty(t, last.Header.Get(maybeSingleHeader))
}

func TestExecuteMutation(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Respond(201, `[{"id":1}]`, nil)

	client := NewClient(srv.URL, nil)
	res, err := client.From("things").
		Insert(map[string]any{"name": "x"}, &InsertOptions{WriteOptions: WriteOptions{Count: CountExact}}).
		Execute(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(res.Data))

	last := srv.Last()
	assert.Equal(t, "POST", last.Method)
	assert.Equal(t, "count=exact,return=representation", last.Header.Get("Prefer"))
	assert.JSONEq(t, `{"name":"x"}`, string(last.Body))
}

func TestExecuteUpsertOnConflict(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Respond(201, `[]`, nil)

	_, err := NewClient(srv.URL, nil).From("things").
		Upsert([]map[string]any{{"id": 1}}, &UpsertOptions{OnConflict: "id"}).
		Execute(context.Background())
	require.NoError(t, err)

	last := srv.Last()
	assert.Equal(t, "id", last.Query.Get("on_conflict"))
	assert.Equal(t, "return=representation,resolution=merge-duplicates", last.Header.Get("Prefer"))
}

func TestExecuteDelete(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Respond(204, ``, nil)

	res, err := NewClient(srv.URL, nil).From("things").
		Delete(&WriteOptions{Returning: ReturnMinimal}).
		Eq("id", "7").
		Execute(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res.Data)

	last := srv.Last()
	assert.Equal(t, "DELETE", last.Method)
	assert.Equal(t, "eq.7", last.Query.Get("id"))
	assert.Equal(t, "return=minimal", last.Header.Get("Prefer"))
}

func TestExecuteTo(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()
	srv.Respond(200, `[{"id":1,"name":"a"}]`, nil)

	var rows []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	_, err := NewClient(srv.URL, nil).From("things").Select().ExecuteTo(context.Background(), &rows)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].Name)
}

func TestExecuteCanceledContext(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, nil).From("things").Select().Execute(ctx)
	require.Error(t, err)

	// transport failures propagate as-is, not as API errors
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
