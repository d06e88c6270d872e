package main

import (
	"context"
	"errors"
	"io"

	"github.com/rahulmaharshi/manage-library-app/borrowing/sqlengine"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/addbook"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/approveborrowing"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/deletebook"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/importbooks"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/requestborrowing"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/returnborrowing"
	"github.com/rahulmaharshi/manage-library-app/library/features/command/updatebook"
	"github.com/rahulmaharshi/manage-library-app/library/features/query/allborrowings"
	"github.com/rahulmaharshi/manage-library-app/library/features/query/bookdetails"
	"github.com/rahulmaharshi/manage-library-app/library/features/query/myborrowings"
	"github.com/rahulmaharshi/manage-library-app/library/features/query/overdueborrowings"
	"github.com/rahulmaharshi/manage-library-app/library/httpapi"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
	"github.com/rahulmaharshi/manage-library-app/library/shared/shell"
	"github.com/rahulmaharshi/manage-library-app/library/shared/shell/config"
	"github.com/rahulmaharshi/manage-library-app/library/shared/shell/observable"
)

// app owns everything a command needs and releases it in close.
type app struct {
	cfg   config.AppConfig
	obs   config.Observability
	store sqlengine.Store

	closers []func(context.Context) error
}

func openApp(ctx context.Context, cfg config.AppConfig, logOutput io.Writer) (*app, error) {
	a := &app{cfg: cfg}

	var providers *config.ObservabilityProviders
	if cfg.OTelEnabled {
		var err error
		if providers, err = config.NewObservabilityProviders(ctx, cfg); err != nil {
			return nil, err
		}

		a.closers = append(a.closers, providers.Shutdown)
	}

	a.obs = config.NewObservability(cfg, providers, logOutput)

	storeOptions := []sqlengine.Option{
		sqlengine.WithLogger(a.obs.Logger),
		sqlengine.WithContextualLogger(a.obs.ContextualLogger),
	}

	if a.obs.Metrics != nil {
		storeOptions = append(storeOptions, sqlengine.WithMetrics(a.obs.Metrics))
	}

	if a.obs.Tracing != nil {
		storeOptions = append(storeOptions, sqlengine.WithTracing(a.obs.Tracing))
	}

	store, closeStore, err := config.OpenStore(ctx, cfg, storeOptions...)
	if err != nil {
		return nil, errors.Join(err, a.close(ctx))
	}

	a.store = store
	a.closers = append(a.closers, func(context.Context) error {
		closeStore()
		return nil
	})

	return a, nil
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}

	a.closers = nil

	return errors.Join(errs...)
}

func (a *app) retryOptions(commandType string) []shell.RetryOption {
	options := []shell.RetryOption{shell.WithMaxAttempts(a.cfg.MaxConflictAttempts)}
	if a.obs.Metrics != nil {
		options = append(options, shell.WithMetrics(a.obs.Metrics, commandType))
	}

	return options
}

// handlers builds every use case handler wrapped with logging, metrics and tracing.
func (a *app) handlers() (httpapi.Handlers, error) {
	policy, err := a.cfg.FinePolicy()
	if err != nil {
		return httpapi.Handlers{}, err
	}

	limits := requestborrowing.LoanLimits{DefaultDays: a.cfg.DefaultLoanDays, MaxDays: a.cfg.MaxLoanDays}

	request, err := wrapCommand[requestborrowing.Command](a, requestborrowing.NewCommandHandler(a.store,
		requestborrowing.WithLoanLimits(limits),
		requestborrowing.WithRetryOptions(a.retryOptions(requestborrowing.Command{}.CommandType())...),
	))
	if err != nil {
		return httpapi.Handlers{}, err
	}

	approve, err := wrapCommand[approveborrowing.Command](a, approveborrowing.NewCommandHandler(a.store,
		approveborrowing.WithRetryOptions(a.retryOptions(approveborrowing.Command{}.CommandType())...),
	))
	if err != nil {
		return httpapi.Handlers{}, err
	}

	giveBack, err := wrapCommand[returnborrowing.Command](a, returnborrowing.NewCommandHandler(a.store,
		returnborrowing.WithFinePolicy(policy),
		returnborrowing.WithRetryOptions(a.retryOptions(returnborrowing.Command{}.CommandType())...),
	))
	if err != nil {
		return httpapi.Handlers{}, err
	}

	add, err := wrapCommand[addbook.Command](a, addbook.NewCommandHandler(a.store))
	if err != nil {
		return httpapi.Handlers{}, err
	}

	update, err := wrapCommand[updatebook.Command](a, updatebook.NewCommandHandler(a.store,
		updatebook.WithRetryOptions(a.retryOptions(updatebook.Command{}.CommandType())...),
	))
	if err != nil {
		return httpapi.Handlers{}, err
	}

	remove, err := wrapCommand[deletebook.Command](a, deletebook.NewCommandHandler(a.store,
		deletebook.WithRetryOptions(a.retryOptions(deletebook.Command{}.CommandType())...),
	))
	if err != nil {
		return httpapi.Handlers{}, err
	}

	importer, err := a.importBooksHandler()
	if err != nil {
		return httpapi.Handlers{}, err
	}

	all, err := wrapQuery[allborrowings.Query, allborrowings.AllBorrowings](a, allborrowings.NewQueryHandler(a.store, policy))
	if err != nil {
		return httpapi.Handlers{}, err
	}

	mine, err := wrapQuery[myborrowings.Query, myborrowings.MyBorrowings](a, myborrowings.NewQueryHandler(a.store, policy))
	if err != nil {
		return httpapi.Handlers{}, err
	}

	overdue, err := wrapQuery[overdueborrowings.Query, overdueborrowings.OverdueBorrowings](a, overdueborrowings.NewQueryHandler(a.store, policy))
	if err != nil {
		return httpapi.Handlers{}, err
	}

	details, err := wrapQuery[bookdetails.Query, bookdetails.BookDetails](a, bookdetails.NewQueryHandler(a.store))
	if err != nil {
		return httpapi.Handlers{}, err
	}

	return httpapi.Handlers{
		RequestBorrowing:  request,
		ApproveBorrowing:  approve,
		ReturnBorrowing:   giveBack,
		AddBook:           add,
		UpdateBook:        update,
		DeleteBook:        remove,
		ImportBooks:       importer,
		AllBorrowings:     all,
		MyBorrowings:      mine,
		OverdueBorrowings: overdue,
		BookDetails:       details,
	}, nil
}

func (a *app) importBooksHandler() (shell.CoreCommandHandler[importbooks.Command], error) {
	return wrapCommand[importbooks.Command](a, importbooks.NewCommandHandler(a.store))
}

// systemActor runs maintenance commands from the command line with librarian rights.
func systemActor() core.Actor {
	return core.Actor{UserID: "system", Role: core.RoleAdmin, FullName: "library cli"}
}

func wrapCommand[C shell.Command](a *app, handler shell.CoreCommandHandler[C]) (shell.CoreCommandHandler[C], error) {
	return observable.NewCommandWrapper[C](handler,
		observable.WithCommandLogging[C](a.obs.Logger),
		observable.WithCommandContextualLogging[C](a.obs.ContextualLogger),
		observable.WithCommandMetrics[C](a.obs.Metrics),
		observable.WithCommandTracing[C](a.obs.Tracing),
	)
}

func wrapQuery[Q shell.Query, R any](a *app, handler shell.QueryHandler[Q, R]) (shell.QueryHandler[Q, R], error) {
	return observable.NewQueryWrapper[Q, R](handler,
		observable.WithQueryLogging[Q, R](a.obs.Logger),
		observable.WithQueryContextualLogging[Q, R](a.obs.ContextualLogger),
		observable.WithQueryMetrics[Q, R](a.obs.Metrics),
		observable.WithQueryTracing[Q, R](a.obs.Tracing),
	)
}
