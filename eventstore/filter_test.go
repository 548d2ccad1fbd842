package eventstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

//nolint:funlen
func Test_FilterBuilder_ValidCombinations(t *testing.T) {
	tests := []struct {
		name     string
		build    func() eventstore.Filter
		validate func(t *testing.T, filter eventstore.Filter)
	}{
		{
			name: "matching_any_event_creates_empty_filter",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().MatchingAnyEvent()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.True(t, f.IsEmpty())
				assert.Empty(t, f.Items())
			},
		},
		{
			name: "event_types_only",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("LoanStarted", "BookAddedToCirculation").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				require.Len(t, f.Items(), 1)
				assert.Equal(t, []string{"BookAddedToCirculation", "LoanStarted"}, f.Items()[0].EventTypes())
				assert.Empty(t, f.Items()[0].Predicates())
			},
		},
		{
			name: "event_types_and_all_predicates",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("LoanStarted").
					AndAllPredicatesOf(eventstore.P("MemberID", "m-1"), eventstore.P("BookID", "b-1")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				require.Len(t, f.Items(), 1)
				item := f.Items()[0]
				assert.True(t, item.AllPredicatesMustMatch())
				assert.Equal(t, []eventstore.FilterPredicate{
					eventstore.P("BookID", "b-1"),
					eventstore.P("MemberID", "m-1"),
				}, item.Predicates())
			},
		},
		{
			name: "predicates_then_event_types",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyPredicateOf(eventstore.P("BookID", "b-1")).
					AndAnyEventTypeOf("LoanReturned").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				require.Len(t, f.Items(), 1)
				assert.False(t, f.Items()[0].AllPredicatesMustMatch())
				assert.Equal(t, []string{"LoanReturned"}, f.Items()[0].EventTypes())
			},
		},
		{
			name: "or_matching_creates_several_items",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("BookAddedToCirculation").
					AndAnyPredicateOf(eventstore.P("BookID", "b-1")).
					OrMatching().
					AnyPredicateOf(eventstore.P("MemberID", "m-1")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				require.Len(t, f.Items(), 2)
				assert.Equal(t, "BookID", f.Items()[0].Predicates()[0].Key())
				assert.Equal(t, "m-1", f.Items()[1].Predicates()[0].Val())
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.validate(t, tc.build())
		})
	}
}

func Test_FilterBuilder_DropsEmptyAndDuplicateValues(t *testing.T) {
	// act
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("LoanStarted", "", "LoanStarted").
		AndAnyPredicateOf(eventstore.P("BookID", ""), eventstore.P("", "b-1"), eventstore.P("BookID", "b-1"), eventstore.P("BookID", "b-1")).
		Finalize()

	// assert
	require.Len(t, filter.Items(), 1)
	assert.Equal(t, []string{"LoanStarted"}, filter.Items()[0].EventTypes())
	assert.Equal(t, []eventstore.FilterPredicate{eventstore.P("BookID", "b-1")}, filter.Items()[0].Predicates())
}

func Test_FilterBuilder_DropsItemsThatWouldMatchEverything(t *testing.T) {
	// act
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("").
		Finalize()

	// assert
	assert.True(t, filter.IsEmpty())
}

func Test_FilterBuilder_DoesNotShareStateBetweenBranches(t *testing.T) {
	// arrange
	base := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("LoanStarted")

	// act
	first := base.AndAnyPredicateOf(eventstore.P("BookID", "b-1")).Finalize()
	second := base.AndAnyPredicateOf(eventstore.P("BookID", "b-2")).Finalize()

	// assert
	assert.Equal(t, "b-1", first.Items()[0].Predicates()[0].Val())
	assert.Equal(t, "b-2", second.Items()[0].Predicates()[0].Val())
	assert.Len(t, second.Items()[0].Predicates(), 1)
}

func Test_BuildStorableEvent_RejectsInvalidJSON(t *testing.T) {
	_, err := eventstore.BuildStorableEventWithEmptyMetadata("LoanStarted", time.Time{}, []byte("{"))
	assert.ErrorIs(t, err, eventstore.ErrInvalidPayloadJSON)

	_, err = eventstore.BuildStorableEvent("LoanStarted", time.Time{}, []byte("{}"), []byte("nope"))
	assert.ErrorIs(t, err, eventstore.ErrInvalidMetadataJSON)
}

func Test_ConsistencyLevel_DefaultsToStrong(t *testing.T) {
	ctx := t.Context()

	assert.Equal(t, eventstore.StrongConsistency, eventstore.GetConsistencyLevel(ctx))
	assert.Equal(t, eventstore.EventualConsistency, eventstore.GetConsistencyLevel(eventstore.WithEventualConsistency(ctx)))
	assert.Equal(t, eventstore.StrongConsistency, eventstore.GetConsistencyLevel(eventstore.WithStrongConsistency(ctx)))
}
