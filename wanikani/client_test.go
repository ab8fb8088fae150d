package wanikani

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crabigator-dev/wanikani-go/resource"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultClientConfig("test-token")
	cfg.BaseURL = server.URL
	return NewClient(cfg)
}

func jsonDecode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// pastEpoch is a Ratelimit-Reset value already behind us, so retries in
// tests never sleep.
func pastEpoch() string {
	return strconv.FormatInt(time.Now().Add(-time.Second).Unix(), 10)
}

func assignmentJSON(id int64) string {
	return fmt.Sprintf(`{
		"id": %d,
		"object": "assignment",
		"url": "https://api.wanikani.com/v2/assignments/%d",
		"data_updated_at": "2017-10-30T01:51:10.438432Z",
		"data": {
			"created_at": "2017-09-05T23:38:10.695133Z",
			"subject_id": %d,
			"subject_type": "kanji",
			"srs_stage": 4,
			"unlocked_at": "2017-09-05T23:38:10.695133Z",
			"started_at": null,
			"passed_at": null,
			"burned_at": null,
			"available_at": null,
			"resurrected_at": null,
			"hidden": false
		}
	}`, id, id, id+1000)
}

func collectionJSON(nextURL string, items ...string) string {
	next := "null"
	if nextURL != "" {
		next = strconv.Quote(nextURL)
	}
	return fmt.Sprintf(`{
		"object": "collection",
		"url": "https://api.wanikani.com/v2/assignments",
		"pages": {"per_page": 500, "next_url": %s, "previous_url": null},
		"total_count": %d,
		"data_updated_at": "2017-11-29T19:37:03.571377Z",
		"data": [%s]
	}`, next, len(items), strings.Join(items, ","))
}

func TestClient_StandardHeaders(t *testing.T) {
	var gotAuth, gotRevision string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRevision = r.Header.Get("Wanikani-Revision")
		fmt.Fprint(w, assignmentJSON(80463006))
	}))

	res, err := client.GetAssignment(context.Background(), 80463006)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, APIVersion, gotRevision)
	assert.Equal(t, int64(80463006), res.ID)

	data, ok := res.Assignment()
	require.True(t, ok)
	assert.Equal(t, 4, data.SRSStage)
}

func TestClient_ConditionalRoundTrip(t *testing.T) {
	var requests int
	var secondIfNoneMatch string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.Header().Set("Etag", `W/"abc123"`)
			fmt.Fprint(w, assignmentJSON(1))
			return
		}
		secondIfNoneMatch = r.Header.Get("If-None-Match")
		w.WriteHeader(http.StatusNotModified)
	}))

	ctx := context.Background()
	first, err := client.GetAssignment(ctx, 1)
	require.NoError(t, err)

	second, err := client.GetAssignment(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, `W/"abc123"`, secondIfNoneMatch)
	assert.Equal(t, first, second, "a 304 resolves to the stored envelope")
}

func TestClient_ETagTakesPrecedence(t *testing.T) {
	var requests int
	var ifNoneMatch, ifModifiedSince string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.Header().Set("Etag", `W/"abc123"`)
			w.Header().Set("Last-Modified", "Mon, 30 Oct 2017 01:51:10 GMT")
			fmt.Fprint(w, assignmentJSON(1))
			return
		}
		ifNoneMatch = r.Header.Get("If-None-Match")
		ifModifiedSince = r.Header.Get("If-Modified-Since")
		w.WriteHeader(http.StatusNotModified)
	}))

	ctx := context.Background()
	_, err := client.GetAssignment(ctx, 1)
	require.NoError(t, err)
	_, err = client.GetAssignment(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, `W/"abc123"`, ifNoneMatch)
	assert.Empty(t, ifModifiedSince, "If-Modified-Since is only sent when no entity tag is held")
}

func TestClient_NotModifiedWithoutBaseline(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))

	_, err := client.GetAssignment(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestClient_RateLimitRetryOnce(t *testing.T) {
	var requests int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.Header().Set("Ratelimit-Limit", "60")
			w.Header().Set("Ratelimit-Remaining", "0")
			w.Header().Set("Ratelimit-Reset", pastEpoch())
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Ratelimit-Remaining", "59")
		fmt.Fprint(w, assignmentJSON(1))
	}))

	res, err := client.GetAssignment(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
	assert.Equal(t, int64(1), res.ID)
	assert.Equal(t, 59, client.RateLimit().Remaining)
}

func TestClient_RateLimitPersists(t *testing.T) {
	var requests int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Ratelimit-Remaining", "0")
		w.Header().Set("Ratelimit-Reset", pastEpoch())
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := client.GetAssignment(context.Background(), 1)

	var rateErr *RateLimitedError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 2, requests, "exactly one retry after the advertised reset")
}

func TestClient_AuthError(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error": "Unauthorized. Nice try.", "code": 401}`, "Unauthorized. Nice try."},
		{"forbidden", http.StatusForbidden, `{"error": "Forbidden", "code": 403}`, "Forbidden"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))

			_, err := client.GetUser(context.Background())

			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tc.message, authErr.Message)
		})
	}
}

func TestClient_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": "Not found", "code": 404}`)
	}))

	_, err := client.GetAssignment(context.Background(), 999999)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, notFound.URL, "/assignments/999999")
}

func TestClient_ValidationError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"error": "The assignment is not started", "code": 422}`)
	}))

	subjectID := int64(440)
	_, err := client.CreateReview(context.Background(), &resource.ReviewCreate{
		SubjectID:               &subjectID,
		IncorrectMeaningAnswers: 1,
	})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "The assignment is not started", validation.Message)
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	cfg := DefaultClientConfig("test-token")
	cfg.BaseURL = server.URL
	client := NewClient(cfg)
	server.Close()

	_, err := client.GetAssignment(context.Background(), 1)

	var transport *TransportError
	assert.ErrorAs(t, err, &transport)
}

func TestClient_DecodeErrorSurfaces(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"object": "turtle", "url": "x", "data": {}}`)
	}))

	_, err := client.GetResourceByURL(context.Background(), client.config.BaseURL+"/turtles")

	var decodeErr *resource.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestClient_CreateReview(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/reviews", r.URL.Path)

		var body struct {
			Review *resource.ReviewCreate `json:"review"`
		}
		require.NoError(t, jsonDecode(r, &body))
		require.NotNil(t, body.Review)
		assert.Equal(t, int64(1422), *body.Review.AssignmentID)
		assert.Equal(t, 1, body.Review.IncorrectMeaningAnswers)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{
			"id": 72,
			"object": "review",
			"url": "https://api.wanikani.com/v2/reviews/72",
			"data_updated_at": "2018-05-13T03:34:54.000000Z",
			"data": {
				"created_at": "2018-05-13T03:34:54.000000Z",
				"assignment_id": 1422,
				"subject_id": 997,
				"starting_srs_stage": 1,
				"ending_srs_stage": 1,
				"incorrect_meaning_answers": 1,
				"incorrect_reading_answers": 0
			}
		}`)
	}))

	assignmentID := int64(1422)
	res, err := client.CreateReview(context.Background(), &resource.ReviewCreate{
		AssignmentID:            &assignmentID,
		IncorrectMeaningAnswers: 1,
	})
	require.NoError(t, err)

	review, ok := res.Review()
	require.True(t, ok)
	assert.Equal(t, 1, review.EndingSRSStage)
}

func TestClient_StartAssignment(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/assignments/80463006/start", r.URL.Path)
		fmt.Fprint(w, assignmentJSON(80463006))
	}))

	_, err := client.StartAssignment(context.Background(), 80463006, nil)
	require.NoError(t, err)
}

func TestClient_Pagination(t *testing.T) {
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/assignments", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page_after_id") {
		case "":
			fmt.Fprint(w, collectionJSON(server.URL+"/assignments?page_after_id=2",
				assignmentJSON(1), assignmentJSON(2)))
		case "2":
			fmt.Fprint(w, collectionJSON(server.URL+"/assignments?page_after_id=4",
				assignmentJSON(3), assignmentJSON(4)))
		case "4":
			fmt.Fprint(w, collectionJSON("", assignmentJSON(5)))
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("page_after_id"))
		}
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := DefaultClientConfig("test-token")
	cfg.BaseURL = server.URL
	client := NewClient(cfg)

	all, err := client.ListAssignments(nil).Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, all, 5)
	for i, res := range all {
		assert.Equal(t, int64(i+1), res.ID, "page order is preserved")
	}
}

func TestClient_PaginationEmptyPageTerminates(t *testing.T) {
	var server *httptest.Server
	var requests int
	mux := http.NewServeMux()
	mux.HandleFunc("/assignments", func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("page_after_id") == "" {
			// The cursor in next_url points past the id range; the API
			// answers it with an empty page rather than an error.
			fmt.Fprint(w, collectionJSON(server.URL+"/assignments?page_after_id=99999",
				assignmentJSON(1), assignmentJSON(2)))
			return
		}
		fmt.Fprint(w, collectionJSON(server.URL+"/assignments?page_after_id=99999"))
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := DefaultClientConfig("test-token")
	cfg.BaseURL = server.URL
	client := NewClient(cfg)

	it := client.ListAssignments(nil)
	all, err := it.Collect(context.Background())
	require.NoError(t, err)

	assert.Len(t, all, 2)
	assert.Equal(t, 2, requests, "an empty page ends the walk even with next_url set")

	// The iterator stays exhausted.
	page, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Nil(t, page)
}

func TestClient_PaginationBackward(t *testing.T) {
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/assignments", func(w http.ResponseWriter, r *http.Request) {
		prev := func(id int) string {
			return fmt.Sprintf(`{
				"object": "collection",
				"url": "https://api.wanikani.com/v2/assignments",
				"pages": {"per_page": 500, "next_url": null, "previous_url": %s},
				"total_count": 4,
				"data_updated_at": "2017-11-29T19:37:03.571377Z",
				"data": [%s, %s]
			}`,
				strconv.Quote(server.URL+"/assignments?page_before_id="+strconv.Itoa(id)),
				assignmentJSON(int64(id)), assignmentJSON(int64(id+1)))
		}
		switch r.URL.Query().Get("page_before_id") {
		case "5":
			fmt.Fprint(w, prev(3))
		case "3":
			fmt.Fprint(w, collectionJSON("", assignmentJSON(1), assignmentJSON(2)))
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("page_before_id"))
		}
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := DefaultClientConfig("test-token")
	cfg.BaseURL = server.URL
	client := NewClient(cfg)

	before := int64(5)
	all, err := client.ListAssignments(&AssignmentFilter{PageBeforeID: &before}).
		Backward().
		Collect(context.Background())
	require.NoError(t, err)

	// Pages arrive newest-first; each page's data stays ascending by id.
	require.Len(t, all, 4)
	assert.Equal(t, int64(3), all[0].ID)
	assert.Equal(t, int64(4), all[1].ID)
	assert.Equal(t, int64(1), all[2].ID)
	assert.Equal(t, int64(2), all[3].ID)
}

func TestClient_CollectFailFast(t *testing.T) {
	client := newPaginationFailureClient(t)

	all, err := client.ListAssignments(nil).Collect(context.Background())
	require.Error(t, err)
	assert.Nil(t, all, "fail-fast discards already-fetched pages")
}

func TestClient_CollectPartialKeepsFetched(t *testing.T) {
	client := newPaginationFailureClient(t)

	all, err := client.ListAssignments(nil).CollectPartial(context.Background())
	require.Error(t, err)
	assert.Len(t, all, 2, "partial mode keeps pages fetched before the failure")
}

// newPaginationFailureClient serves one good page then a 500.
func newPaginationFailureClient(t *testing.T) *Client {
	t.Helper()
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/assignments", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page_after_id") == "" {
			fmt.Fprint(w, collectionJSON(server.URL+"/assignments?page_after_id=2",
				assignmentJSON(1), assignmentJSON(2)))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": "Internal server error", "code": 500}`)
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := DefaultClientConfig("test-token")
	cfg.BaseURL = server.URL
	return NewClient(cfg)
}

func TestClient_GetSummary(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/summary", r.URL.Path)
		fmt.Fprint(w, `{
			"object": "report",
			"url": "https://api.wanikani.com/v2/summary",
			"data_updated_at": "2018-04-11T21:00:00.000000Z",
			"data": {
				"lessons": [{"available_at": "2018-04-11T21:00:00.000000Z", "subject_ids": [25, 26]}],
				"next_reviews_at": "2018-04-11T21:00:00.000000Z",
				"reviews": [{"available_at": "2018-04-11T21:00:00.000000Z", "subject_ids": [21, 23]}]
			}
		}`)
	}))

	summary, err := client.GetSummary(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Data.Lessons, 1)
	assert.Equal(t, []int64{25, 26}, summary.Data.Lessons[0].SubjectIDs)
}

func TestClient_ContextCancellation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, assignmentJSON(1))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetAssignment(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
