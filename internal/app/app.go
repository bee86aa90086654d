package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"urbanlink/internal/assist"
	"urbanlink/internal/booking"
	"urbanlink/internal/directory"
	"urbanlink/internal/domain"
	"urbanlink/internal/events"
	"urbanlink/internal/export"
	"urbanlink/internal/metrics"
	"urbanlink/internal/models"
	"urbanlink/internal/session"
	"urbanlink/internal/view"

	"github.com/rs/zerolog"
)

// SearchQuery is the last-submitted service/location pair, kept only so the
// results screen can display its context.
type SearchQuery struct {
	Service  string
	Location string
}

// App composes the session, booking, search, notification and routing state
// behind the handler surface the UI drives. Every failure degrades to a
// toast; nothing here is fatal to the process.
type App struct {
	directory  domain.Directory
	sessions   *session.Manager
	bookings   *booking.Manager
	toasts     domain.Notifier
	router     *view.Router
	assistant  domain.Assistant
	eventBus   domain.EventPublisher
	exportPath string
	logger     *zerolog.Logger

	mu            sync.RWMutex
	searchResults []models.Worker
	searchQuery   SearchQuery
	searching     bool
	searchSeq     uint64
}

func New(
	dir domain.Directory,
	sessions *session.Manager,
	bookings *booking.Manager,
	toasts domain.Notifier,
	router *view.Router,
	assistant domain.Assistant,
	eventBus domain.EventPublisher,
	exportPath string,
	logger *zerolog.Logger,
) *App {
	return &App{
		directory:  dir,
		sessions:   sessions,
		bookings:   bookings,
		toasts:     toasts,
		router:     router,
		assistant:  assistant,
		eventBus:   eventBus,
		exportPath: exportPath,
		logger:     logger,
	}
}

// RestoreSession re-hydrates the persisted session on startup, if any.
func (a *App) RestoreSession(ctx context.Context) error {
	_, _, err := a.sessions.Restore(ctx)
	return err
}

// CurrentUser returns the authenticated user, if any.
func (a *App) CurrentUser() (models.User, bool) {
	return a.sessions.Current()
}

// View returns the active screen.
func (a *App) View() view.View {
	return a.router.Current()
}

// Search submits a query, switches to the results screen and waits out the
// simulated latency. Each submission takes a monotonic sequence number;
// a result that comes back after a newer submission is discarded, so a
// slow early search can never overwrite a later one.
func (a *App) Search(ctx context.Context, service, location string) error {
	a.mu.Lock()
	a.searchSeq++
	seq := a.searchSeq
	a.searching = true
	a.searchQuery = SearchQuery{Service: service, Location: location}
	a.mu.Unlock()

	a.router.Go(view.Search)
	metrics.IncSearch()

	results, err := a.directory.Search(ctx, service, location)

	a.mu.Lock()
	defer a.mu.Unlock()
	if seq != a.searchSeq {
		// A newer search superseded this one while it was in flight.
		return nil
	}
	a.searching = false
	if err != nil {
		a.searchResults = nil
		return err
	}
	a.searchResults = results

	_ = a.eventBus.PublishJSON(events.EventSearchPerformed, events.SearchEventPayload{
		Service:  service,
		Location: location,
		Results:  len(results),
	})
	return nil
}

// SelectCategory browses a category: the category name as the service term,
// no location filter.
func (a *App) SelectCategory(ctx context.Context, category string) error {
	return a.Search(ctx, category, "")
}

// SearchResults returns the current result list.
func (a *App) SearchResults() []models.Worker {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]models.Worker(nil), a.searchResults...)
}

// IsSearching reports whether a search is still in flight; the results
// screen shows skeleton placeholders while true.
func (a *App) IsSearching() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.searching
}

// Query returns the last-submitted search terms.
func (a *App) Query() SearchQuery {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.searchQuery
}

// SortResults reorders the current results by the given strategy. The full
// list is re-sorted every time, never a previously sorted view.
func (a *App) SortResults(strategy string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.searchResults = directory.SortWorkers(a.searchResults, strategy)
}

// BookNow gates the booking flow: anonymous users get an info toast and a
// login prompt instead of a booking form.
func (a *App) BookNow(worker models.Worker) bool {
	if _, ok := a.sessions.Current(); !ok {
		a.showToast(models.SeverityInfo, "Please log in to book a service.")
		return false
	}
	return true
}

// ConfirmBooking creates the booking, notifies and jumps to the dashboard.
func (a *App) ConfirmBooking(ctx context.Context, worker models.Worker, when time.Time) (*models.Booking, error) {
	b, err := a.bookings.Confirm(ctx, worker, when)
	if err != nil {
		a.showToast(models.SeverityError, "Could not save your booking. Please try again.")
		return nil, err
	}
	if b == nil {
		// Anonymous: the BookNow gate should have caught this.
		return nil, nil
	}

	metrics.IncBooking(models.StatusUpcoming)
	_ = a.eventBus.PublishJSON(events.EventBookingCreated, events.BookingEventPayload{
		BookingID:  b.ID,
		UserID:     b.UserID,
		WorkerID:   b.Worker.ID,
		WorkerName: b.Worker.Name,
		Status:     b.Status,
		Date:       b.Date,
	})

	a.showToast(models.SeveritySuccess, fmt.Sprintf(
		"Booking confirmed with %s for %s at %s.",
		worker.Name,
		when.Format("Mon, January 2"),
		when.Format("3:04 PM"),
	))
	a.router.Go(view.Dashboard)
	return b, nil
}

// CancelBooking cancels by id. Unknown ids have no observable effect.
func (a *App) CancelBooking(ctx context.Context, bookingID int64) error {
	found, err := a.bookings.Cancel(ctx, bookingID)
	if err != nil {
		a.showToast(models.SeverityError, "Could not cancel the booking. Please try again.")
		return err
	}
	if !found {
		return nil
	}

	metrics.IncBooking(models.StatusCancelled)
	_ = a.eventBus.PublishJSON(events.EventBookingCancelled, events.BookingEventPayload{
		BookingID: bookingID,
		Status:    models.StatusCancelled,
	})
	a.showToast(models.SeverityInfo, "Booking has been cancelled.")
	return nil
}

// UpcomingBookings lists the current user's Upcoming bookings, soonest first.
func (a *App) UpcomingBookings(ctx context.Context) ([]models.Booking, error) {
	return a.bookings.Upcoming(ctx)
}

// BookingHistory lists Completed and Cancelled bookings, newest first.
func (a *App) BookingHistory(ctx context.Context) ([]models.Booking, error) {
	return a.bookings.History(ctx)
}

// Login authenticates and greets, or toasts the failure.
func (a *App) Login(ctx context.Context, email, password string) error {
	user, err := a.sessions.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			a.showToast(models.SeverityError, "Invalid email or password.")
		} else {
			a.showToast(models.SeverityError, "Login failed. Please try again.")
		}
		return err
	}

	_ = a.eventBus.PublishJSON(events.EventUserLoggedIn, events.UserEventPayload{UserID: user.ID, Email: user.Email})
	a.showToast(models.SeveritySuccess, fmt.Sprintf("Welcome back, %s!", firstName(user.Name)))
	return nil
}

// Signup creates the account and signs it in, or toasts the failure.
func (a *App) Signup(ctx context.Context, name, email, password string) error {
	user, err := a.sessions.Signup(ctx, name, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			a.showToast(models.SeverityError, "An account with this email already exists.")
		} else {
			a.showToast(models.SeverityError, "Signup failed. Please try again.")
		}
		return err
	}

	_ = a.eventBus.PublishJSON(events.EventUserSignedUp, events.UserEventPayload{UserID: user.ID, Email: user.Email})
	a.showToast(models.SeveritySuccess, fmt.Sprintf("Welcome, %s!", firstName(name)))
	return nil
}

// Logout clears the session and forces the home screen.
func (a *App) Logout(ctx context.Context) error {
	user, _ := a.sessions.Current()
	if err := a.sessions.Logout(ctx); err != nil {
		return err
	}

	a.router.Go(view.Home)
	_ = a.eventBus.PublishJSON(events.EventUserLoggedOut, events.UserEventPayload{UserID: user.ID, Email: user.Email})
	a.showToast(models.SeverityInfo, "You have been logged out.")
	return nil
}

// OpenDashboard jumps to the dashboard; denied while anonymous.
func (a *App) OpenDashboard() bool {
	_, authed := a.sessions.Current()
	return a.router.GoDashboard(authed)
}

// SmartMatch asks the assistant for the best catalog match for a free-text
// request.
func (a *App) SmartMatch(ctx context.Context, request string) (models.Worker, error) {
	w, err := a.assistant.Match(ctx, request, a.directory.Workers())
	if err != nil {
		metrics.IncAssist("match", "error")
		return models.Worker{}, err
	}
	metrics.IncAssist("match", "ok")
	return w, nil
}

// EstimateJob asks the assistant for a cost breakdown for one worker.
func (a *App) EstimateJob(ctx context.Context, workerID int64, jobDescription string) (models.PricingEstimate, error) {
	worker, ok := a.directory.WorkerByID(workerID)
	if !ok {
		return models.PricingEstimate{}, fmt.Errorf("unknown worker %d", workerID)
	}

	estimate, err := a.assistant.Estimate(ctx, worker, jobDescription)
	if err != nil {
		metrics.IncAssist("estimate", "error")
		return models.PricingEstimate{}, err
	}
	metrics.IncAssist("estimate", "ok")
	return estimate, nil
}

// NewChat opens an assistant conversation.
func (a *App) NewChat() *assist.ChatSession {
	return assist.NewChatSession(a.assistant)
}

// ExportBookings writes the current user's bookings to an .xlsx file.
func (a *App) ExportBookings(ctx context.Context) (string, error) {
	user, ok := a.sessions.Current()
	if !ok {
		return "", domain.ErrNotAuthenticated
	}

	all, err := a.bookings.All(ctx)
	if err != nil {
		return "", err
	}
	return export.BookingsToExcel(a.exportPath, user, all, a.logger)
}

func (a *App) showToast(severity, message string) {
	a.toasts.Enqueue(severity, message)
	metrics.IncToast(severity)
}

func firstName(full string) string {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return full
	}
	return parts[0]
}
