package api_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/api"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
	. "github.com/hexs00si/LMS-Infy-T4-sub001/testutil/helper" //nolint:revive
	"github.com/hexs00si/LMS-Infy-T4-sub001/testutil/spies"
)

type response struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	Error     *api.Error     `json:"error"`
	RequestID string         `json:"request_id"`
}

func (r response) eventTypes() []string {
	var types []string

	events, _ := r.Data["events"].([]any)
	for _, event := range events {
		if e, ok := event.(map[string]any); ok {
			types = append(types, e["EventType"].(string))
		}
	}

	return types
}

func givenServer(t *testing.T, opts ...api.Option) (*api.Server, Circulation) {
	t.Helper()

	circulation := GivenCirculation(t)

	handlers, err := api.NewHandlers(circulation.Coordinator, api.Observability{})
	require.NoError(t, err, "error in arranging test data")

	opts = append([]api.Option{api.WithClock(FakeClock)}, opts...)

	return api.NewServer(handlers, opts...), circulation
}

func call(t *testing.T, server *api.Server, method, path string, caller *core.Actor, body any) (int, response) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := jsoniter.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if caller != nil {
		req.Header.Set(api.HeaderActorID, caller.ID)
		req.Header.Set(api.HeaderActorRole, string(caller.Role))
	}

	resp, err := server.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded response
	require.NoError(t, jsoniter.Unmarshal(raw, &decoded), string(raw))

	return resp.StatusCode, decoded
}

func actorPtr(a core.Actor) *core.Actor {
	return &a
}

var (
	staff   = actorPtr(Staff)
	memberA = actorPtr(Member("member-a"))
	memberB = actorPtr(Member("member-b"))
)

func addBook(t *testing.T, server *api.Server, bookID string, quantity int) {
	t.Helper()

	status, _ := call(t, server, http.MethodPost, "/api/v1/books", staff, api.AddBookRequest{
		BookID:    bookID,
		LibraryID: LibraryID,
		Title:     "Implementing Domain-Driven Design",
		Author:    "Vaughn Vernon",
		ISBN:      "978-0-321-83457-7",
		Quantity:  quantity,
	})
	require.Equal(t, http.StatusCreated, status, "error in arranging test data")
}

func Test_Server_Health(t *testing.T) {
	// arrange
	server, _ := givenServer(t)

	// act
	status, resp := call(t, server, http.MethodGet, "/health", nil, nil)

	// assert
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RequestID)
}

func Test_Server_LoanLifecycle(t *testing.T) {
	// arrange
	server, _ := givenServer(t)
	addBook(t, server, "book-1", 1)

	// act & assert
	status, resp := call(t, server, http.MethodPost, "/api/v1/requests", memberA,
		api.SubmitIssueRequestRequest{RequestID: "req-1", BookID: "book-1"})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "req-1", resp.Data["id"])
	assert.Equal(t, []string{core.IssueRequestSubmittedEventType}, resp.eventTypes())

	status, resp = call(t, server, http.MethodPost, "/api/v1/requests/req-1/decision", staff,
		api.DecideIssueRequestRequest{Decision: "approve"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{core.IssueRequestApprovedEventType}, resp.eventTypes())

	status, resp = call(t, server, http.MethodPost, "/api/v1/requests/req-1/fulfill", staff,
		api.FulfillIssueRequestRequest{LoanID: "loan-1"})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, []string{core.LoanStartedEventType}, resp.eventTypes())

	status, resp = call(t, server, http.MethodPost, "/api/v1/reservations", memberB,
		api.EnqueueReservationRequest{ReservationID: "res-1", BookID: "book-1"})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, []string{core.ReservationEnqueuedEventType}, resp.eventTypes())

	status, resp = call(t, server, http.MethodPost, "/api/v1/loans/loan-1/return", staff, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{core.LoanReturnedEventType, core.ReservationActivatedEventType}, resp.eventTypes())

	status, resp = call(t, server, http.MethodGet, "/api/v1/books/book-1/availability", memberB, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, resp.Data["AvailableCopies"])
	assert.EqualValues(t, 1, resp.Data["HeldCopies"])
	assert.EqualValues(t, 0, resp.Data["ActiveLoans"])
}

func Test_Server_RepeatedCommandIsIdempotent(t *testing.T) {
	// arrange
	server, _ := givenServer(t)
	addBook(t, server, "book-1", 2)

	// act
	status, resp := call(t, server, http.MethodPost, "/api/v1/books", staff, api.AddBookRequest{
		BookID:    "book-1",
		LibraryID: LibraryID,
		Title:     "Implementing Domain-Driven Design",
		Author:    "Vaughn Vernon",
		ISBN:      "978-0-321-83457-7",
		Quantity:  2,
	})

	// assert
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, resp.Data["idempotent"])
	assert.Empty(t, resp.eventTypes())
}

func Test_Server_MapsErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		caller *core.Actor
		body   any
		status int
		code   string
	}{
		{
			name:   "member approves",
			method: http.MethodPost,
			path:   "/api/v1/requests/req-1/decision",
			caller: memberA,
			body:   api.DecideIssueRequestRequest{Decision: "approve"},
			status: http.StatusForbidden,
			code:   "NOT_PERMITTED",
		},
		{
			name:   "unknown loan",
			method: http.MethodPost,
			path:   "/api/v1/loans/loan-404/return",
			caller: staff,
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:   "unknown book",
			method: http.MethodGet,
			path:   "/api/v1/books/book-404/availability",
			caller: staff,
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:   "second request for the same book",
			method: http.MethodPost,
			path:   "/api/v1/requests",
			caller: memberA,
			body:   api.SubmitIssueRequestRequest{RequestID: "req-2", BookID: "book-1"},
			status: http.StatusConflict,
			code:   "DUPLICATE_REQUEST",
		},
		{
			name:   "request id used by another member",
			method: http.MethodPost,
			path:   "/api/v1/requests",
			caller: memberB,
			body:   api.SubmitIssueRequestRequest{RequestID: "req-1", BookID: "book-1"},
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name:   "member looks at other member",
			method: http.MethodGet,
			path:   "/api/v1/members/member-b/loans",
			caller: memberA,
			status: http.StatusForbidden,
			code:   "NOT_PERMITTED",
		},
		{
			name:   "invalid as_of",
			method: http.MethodGet,
			path:   "/api/v1/members/member-a/loans?as_of=yesterday",
			caller: memberA,
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name:   "missing actor",
			method: http.MethodGet,
			path:   "/api/v1/books/book-1/availability",
			status: http.StatusUnauthorized,
			code:   "HTTP_ERROR",
		},
		{
			name:   "unknown role",
			method: http.MethodGet,
			path:   "/api/v1/books/book-1/availability",
			caller: &core.Actor{ID: "x", Role: "admin"},
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name:   "member sweeps",
			method: http.MethodPost,
			path:   "/api/v1/sweeps/expire-reservations",
			caller: memberA,
			status: http.StatusForbidden,
			code:   "NOT_PERMITTED",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			server, _ := givenServer(t)
			addBook(t, server, "book-1", 1)
			status, _ := call(t, server, http.MethodPost, "/api/v1/requests", memberA,
				api.SubmitIssueRequestRequest{RequestID: "req-1", BookID: "book-1"})
			require.Equal(t, http.StatusCreated, status, "error in arranging test data")

			// act
			status, resp := call(t, server, tc.method, tc.path, tc.caller, tc.body)

			// assert
			assert.Equal(t, tc.status, status)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func Test_Server_RefusalReturnsTheFailureEvent(t *testing.T) {
	// arrange
	server, _ := givenServer(t)
	addBook(t, server, "book-1", 1)
	call(t, server, http.MethodPost, "/api/v1/requests", memberA, api.SubmitIssueRequestRequest{RequestID: "req-1", BookID: "book-1"})

	// act
	status, resp := call(t, server, http.MethodPost, "/api/v1/requests", memberA,
		api.SubmitIssueRequestRequest{RequestID: "req-2", BookID: "book-1"})

	// assert
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, []string{core.CirculationActionFailedEventType}, resp.eventTypes())
}

func Test_Server_SweepsAndSummary(t *testing.T) {
	// arrange
	server, circulation := givenServer(t, api.WithClock(func() time.Time { return FakeClock().AddDate(0, 0, 20) }))
	circulation.Given(t, FixtureBookAdded("book-1", 1, FakeClock()))
	circulation.GivenLoan(t, "loan-1", "book-1", "member-a", FakeClock())

	// act
	status, sweep := call(t, server, http.MethodPost, "/api/v1/sweeps/mark-overdue", staff, api.SweepRequest{LibraryID: LibraryID})
	_, summary := call(t, server, http.MethodGet, "/api/v1/members/member-a/loans", memberA, nil)

	// assert
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{core.LoanMarkedOverdueEventType}, sweep.eventTypes())
	assert.EqualValues(t, 300, summary.Data["TotalAccruedFine"])
	assert.Len(t, circulation.Notifier.OfKind(core.NotificationLoanOverdue), 1)
}

func Test_Server_RequestIDBecomesCorrelationID(t *testing.T) {
	// arrange
	server, circulation := givenServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", bytes.NewReader([]byte(
		`{"book_id":"book-1","library_id":"lib-1","title":"Refactoring","author":"Martin Fowler","isbn":"978-0-13-475759-9","quantity":1}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "corr-42")
	req.Header.Set(api.HeaderActorID, StaffID)
	req.Header.Set(api.HeaderActorRole, "staff")

	// act
	resp, err := server.App().Test(req, -1)

	// assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "corr-42", resp.Header.Get("X-Request-ID"))

	events, _, err := circulation.Store.Query(t.Context(), eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Contains(t, string(events[0].MetadataJSON), "corr-42")
}

func Test_Server_ExposesMetricsAndLogsRequests(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "circulation_test_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Inc()

	logs := spies.NewLogHandlerSpy()
	server, _ := givenServer(t, api.WithMetricsGatherer(registry), api.WithLogger(slog.New(logs)))

	// act
	resp, err := server.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// assert
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "circulation_test_total 1")
	assert.True(t, logs.HasAttr("http request handled", "path", "/metrics"))
	assert.True(t, logs.HasAttr("http request handled", "status_code", "200"))
}

func Test_StatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{core.ErrMemberLimitExceeded, http.StatusUnprocessableEntity},
		{core.ErrOutOfStock, http.StatusConflict},
		{core.ErrAlreadyQueued, http.StatusConflict},
		{core.ErrStaleState, http.StatusConflict},
		{core.ErrInvalidTransition, http.StatusConflict},
		{core.ErrBookDeactivated, http.StatusConflict},
		{core.ErrInvariantViolation, http.StatusInternalServerError},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			// act
			status, _ := api.StatusFor(tc.err)

			// assert
			assert.Equal(t, tc.status, status)
		})
	}
}
