package requestborrowing_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/requestborrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
	"github.com/rahulmaharshi/manage-library-app/library/shared/shell"
	. "github.com/rahulmaharshi/manage-library-app/testutil/storefixture" //nolint:revive
)

var errCreateFailed = errors.New("create failed")

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	handler := requestborrowing.NewCommandHandler(store)
	book := GivenBook(t, store, 2)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	// act
	result, err := handler.Handle(ctx, requestborrowing.BuildCommand(book.ID, givenMember("u1"), 7, now))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.NotEqual(t, uuid.Nil, result.Record.ID)
	assert.Equal(t, 1, AvailableCopies(t, store, book.ID))

	stored, err := store.GetByID(ctx, result.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, borrowing.StatusPending, stored.Status)
	assert.Equal(t, "u1", stored.UserID)
	assert.True(t, stored.DueDate.Equal(now.AddDate(0, 0, 7)))
}

func Test_CommandHandler_Handle_Failure_NoCopiesAvailable(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	handler := requestborrowing.NewCommandHandler(store)
	book := GivenBook(t, store, 1)

	_, err := handler.Handle(ctx, requestborrowing.BuildCommandWithDefaultLoan(book.ID, givenMember("u1"), time.Now()))
	require.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, requestborrowing.BuildCommandWithDefaultLoan(book.ID, givenMember("u2"), time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, shell.OutcomeFailure, result.Outcome)
	assert.Equal(t, core.FailureReasonNoCopiesAvailable, result.Reason)
	assert.Equal(t, 0, AvailableCopies(t, store, book.ID))

	records, err := store.ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func Test_CommandHandler_Handle_Failure_BookNotFound(t *testing.T) {
	// setup
	store := NewSQLiteStore(t)
	handler := requestborrowing.NewCommandHandler(store)

	// act
	result, err := handler.Handle(context.Background(), requestborrowing.BuildCommandWithDefaultLoan(uuid.New(), givenMember("u1"), time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.FailureReasonBookNotFound, result.Reason)
}

func Test_CommandHandler_Handle_Failure_NotPermitted(t *testing.T) {
	// setup
	store := NewSQLiteStore(t)
	handler := requestborrowing.NewCommandHandler(store)
	book := GivenBook(t, store, 1)
	librarian := core.BuildActor("l1", core.RoleLibrarian)

	// act
	result, err := handler.Handle(context.Background(), requestborrowing.BuildCommandWithDefaultLoan(book.ID, librarian, time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.FailureReasonNotPermitted, result.Reason)
	assert.Equal(t, 1, AvailableCopies(t, store, book.ID))
}

func Test_CommandHandler_Handle_RollsBackReservation_WhenRecordCannotBeCreated(t *testing.T) {
	// setup
	store := NewSQLiteStore(t)
	handler := requestborrowing.NewCommandHandler(failingCreateTransactor{store})
	book := GivenBook(t, store, 1)

	// act
	result, err := handler.Handle(context.Background(), requestborrowing.BuildCommandWithDefaultLoan(book.ID, givenMember("u1"), time.Now()))

	// assert
	assert.ErrorIs(t, err, errCreateFailed)
	assert.Equal(t, shell.OutcomeError, result.Outcome)
	assert.Equal(t, 1, AvailableCopies(t, store, book.ID))
}

// Each request runs its transaction on its own pooled SQLite connection.
func Test_CommandHandler_Handle_ConcurrentRequests_NeverOverbook(t *testing.T) {
	// setup
	const requests = 12
	const copies = 5

	ctx := context.Background()
	store := NewConcurrentSQLiteStore(t)
	handler := requestborrowing.NewCommandHandler(store)
	book := GivenBook(t, store, copies)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		noCopies  int
	)

	// act
	for i := range requests {
		wg.Add(1)

		go func(member core.Actor) {
			defer wg.Done()

			result, err := handler.Handle(ctx, requestborrowing.BuildCommandWithDefaultLoan(book.ID, member, time.Now()))
			assert.NoError(t, err)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case result.Succeeded():
				succeeded++
			case result.Reason == core.FailureReasonNoCopiesAvailable:
				noCopies++
			}
		}(givenMember(uuid.NewString()[:8] + string(rune('a'+i))))
	}

	wg.Wait()

	// assert
	assert.Equal(t, copies, succeeded)
	assert.Equal(t, requests-copies, noCopies)
	assert.Equal(t, 0, AvailableCopies(t, store, book.ID))

	records, err := store.ListByStatus(ctx, borrowing.StatusPending)
	require.NoError(t, err)
	assert.Len(t, records, copies)
}

type failingCreateTransactor struct {
	inner borrowing.Transactor
}

func (f failingCreateTransactor) WithinTransaction(
	ctx context.Context,
	fn func(ctx context.Context, uow borrowing.UnitOfWork) error,
) error {

	return f.inner.WithinTransaction(ctx, func(ctx context.Context, uow borrowing.UnitOfWork) error {
		return fn(ctx, failingCreateUnitOfWork{uow})
	})
}

type failingCreateUnitOfWork struct {
	borrowing.UnitOfWork
}

func (failingCreateUnitOfWork) Create(context.Context, borrowing.Record) (uuid.UUID, error) {
	return uuid.Nil, errCreateFailed
}
