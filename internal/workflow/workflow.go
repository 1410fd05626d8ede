package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/service"
	"equiprent-backend/internal/utils"
)

// Step is one of the five fixed states of the booking workflow.
type Step string

const (
	StepDates        Step = "dates"
	StepAuth         Step = "auth"
	StepInfo         Step = "info"
	StepContract     Step = "contract"
	StepConfirmation Step = "confirmation"
)

// Event is a user-driven workflow action.
type Event string

const (
	EventAdvance Event = "advance"
	EventBack    Event = "back"
)

var (
	ErrRequestInFlight     = errors.New("a request is already in flight for this workflow")
	ErrWorkflowClosed      = errors.New("workflow has been torn down")
	ErrDatesNotSelected    = errors.New("no date range selected")
	ErrDateRangeInvalid    = errors.New("end date must be after start date and neither may be in the past")
	ErrAwaitingAuth        = errors.New("waiting for authentication to complete")
	ErrProfileIncomplete   = errors.New("profile is missing required booking fields")
	ErrPaymentDeclined     = errors.New("payment was declined")
	ErrContractNotReady    = errors.New("contract has not been generated yet")
	ErrSignatureRequired   = errors.New("renter signature required before confirmation")
	ErrUndefinedTransition = errors.New("transition not defined for current step")
)

// transitions is the fixed from-state x event table. Anything not listed is
// rejected with ErrUndefinedTransition; the workflow never falls through to
// an undefined state.
var transitions = map[Step]map[Event]Step{
	StepDates: {
		EventAdvance: StepAuth,
	},
	StepAuth: {
		EventAdvance: StepInfo,
		EventBack:    StepDates,
	},
	StepInfo: {
		EventAdvance: StepContract,
		EventBack:    StepDates,
	},
	StepContract: {
		EventAdvance: StepConfirmation,
		EventBack:    StepInfo,
	},
	StepConfirmation: {
		EventBack: StepContract,
	},
}

// IdentityProvider is the session/auth collaborator. AuthReady false means
// "wait", never "fail": the auth step blocks until the provider reports
// readiness.
type IdentityProvider interface {
	AuthReady(ctx context.Context) bool
	CurrentUser(ctx context.Context) (*domain.User, error)
	CurrentProfile(ctx context.Context) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profile *domain.Profile) error
}

// BookingCreator is the slice of the booking service the workflow needs.
type BookingCreator interface {
	CreateBooking(ctx context.Context, renterID, equipmentID, startDate, endDate string) (*domain.Booking, error)
	MarkPaid(ctx context.Context, bookingID, reference string) error
}

// ContractGenerator produces the contract artifact URL for a booking.
type ContractGenerator interface {
	Generate(ctx context.Context, bookingID string) (string, error)
}

// Options tune per-flow behavior. The contract-first flow used on the owner
// side requires the renter's signature before the confirmation step; the
// simple flow does not.
type Options struct {
	RequireRenterSignature bool
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// Workflow carries one rental request from date selection to confirmation.
// It is scoped to a single client session and a single equipment listing; a
// new request gets a new Workflow.
type Workflow struct {
	mu sync.Mutex

	equipment *domain.Equipment
	identity  IdentityProvider
	bookings  BookingCreator
	payments  service.PaymentRequester
	contracts ContractGenerator
	opts      Options

	current   Step
	completed map[Step]bool
	inFlight  bool
	closed    bool

	startDate string
	endDate   string
	quote     utils.RentalCostBreakdown

	// booking is retained across payment retries so a failed payment never
	// causes a duplicate booking row.
	booking      *domain.Booking
	paymentDone  bool
	contractURL  string
	renterSigned bool
}

func New(equipment *domain.Equipment, identity IdentityProvider, bookings BookingCreator, payments service.PaymentRequester, contracts ContractGenerator, opts Options) *Workflow {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Workflow{
		equipment: equipment,
		identity:  identity,
		bookings:  bookings,
		payments:  payments,
		contracts: contracts,
		opts:      opts,
		current:   StepDates,
		completed: make(map[Step]bool),
	}
}

// CurrentStep returns the step the workflow is on.
func (w *Workflow) CurrentStep() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// CompletedSteps returns the set of steps already passed. It is tracked
// independently of the current step so the step indicator keeps showing
// progress after back-navigation.
func (w *Workflow) CompletedSteps() []Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	order := []Step{StepDates, StepAuth, StepInfo, StepContract, StepConfirmation}
	var done []Step
	for _, step := range order {
		if w.completed[step] {
			done = append(done, step)
		}
	}
	return done
}

// Quote returns the provisional duration and price computed at date
// selection, for display.
func (w *Workflow) Quote() utils.RentalCostBreakdown {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.quote
}

// Booking returns the created booking, nil before the info step completes
// its creation call.
func (w *Workflow) Booking() *domain.Booking {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.booking
}

// ContractURL returns the generated contract artifact URL, empty until
// generation succeeds.
func (w *Workflow) ContractURL() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.contractURL
}

// Close tears the workflow down. In-flight requests are not cancelled
// server-side; their responses are discarded when they land.
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

// SelectDates records the requested range and computes the provisional
// price. The range must be non-empty (end strictly after start) and must not
// start in the past.
func (w *Workflow) SelectDates(startDate, endDate string) error {
	start, err := utils.ParseDate(startDate)
	if err != nil {
		return ErrDateRangeInvalid
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return ErrDateRangeInvalid
	}
	if !end.After(start) {
		return ErrDateRangeInvalid
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorkflowClosed
	}

	today, _ := utils.ParseDate(utils.FormatDate(w.opts.Now().UTC()))
	if start.Before(today) {
		return ErrDateRangeInvalid
	}

	quote, err := utils.CalculateRentalCostWithBreakdown(w.equipment.DailyPrice, w.equipment.WeeklyPrice, startDate, endDate)
	if err != nil {
		return err
	}

	w.startDate = startDate
	w.endDate = endDate
	w.quote = quote
	logger.Debug("Dates selected", "equipment_id", w.equipment.ID, "start", startDate, "end", endDate, "days", quote.Days, "total", quote.TotalCost)
	return nil
}

// Advance runs the current step's exit logic and moves to the next step on
// success. At most one Advance (or RetryPayment) runs at a time per
// workflow; concurrent calls fail fast with ErrRequestInFlight instead of
// queuing duplicates.
func (w *Workflow) Advance(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWorkflowClosed
	}
	if w.inFlight {
		w.mu.Unlock()
		return ErrRequestInFlight
	}
	w.inFlight = true
	step := w.current
	w.mu.Unlock()

	err := w.advanceFrom(ctx, step)

	w.mu.Lock()
	w.inFlight = false
	w.mu.Unlock()
	return err
}

func (w *Workflow) advanceFrom(ctx context.Context, step Step) error {
	switch step {
	case StepDates:
		return w.leaveDates(ctx)
	case StepAuth:
		return w.leaveAuth(ctx)
	case StepInfo:
		return w.leaveInfo(ctx)
	case StepContract:
		return w.leaveContract()
	default:
		return ErrUndefinedTransition
	}
}

func (w *Workflow) leaveDates(ctx context.Context) error {
	w.mu.Lock()
	selected := w.startDate != "" && w.endDate != ""
	w.mu.Unlock()
	if !selected {
		return ErrDatesNotSelected
	}

	authed := w.identity.AuthReady(ctx)
	if authed {
		user, err := w.identity.CurrentUser(ctx)
		authed = err == nil && user != nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorkflowClosed
	}
	w.completed[StepDates] = true
	if authed {
		// Auth is skipped entirely when an identity is already present.
		w.completed[StepAuth] = true
		w.current = StepInfo
	} else {
		w.current = transitions[StepDates][EventAdvance]
	}
	logger.Debug("Left dates step", "next", w.current, "auth_skipped", authed)
	return nil
}

func (w *Workflow) leaveAuth(ctx context.Context) error {
	if !w.identity.AuthReady(ctx) {
		return ErrAwaitingAuth
	}
	user, err := w.identity.CurrentUser(ctx)
	if err != nil || user == nil {
		return ErrAwaitingAuth
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorkflowClosed
	}
	w.completed[StepAuth] = true
	w.current = transitions[StepAuth][EventAdvance]
	return nil
}

// leaveInfo is the heavy step: profile gate, booking creation, then payment.
// Booking creation happens at most once; on a payment failure the created
// booking is kept and the step can be retried without creating a duplicate.
func (w *Workflow) leaveInfo(ctx context.Context) error {
	profile, err := w.identity.CurrentProfile(ctx)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil || !profile.IsBookingComplete() {
		return ErrProfileIncomplete
	}

	w.mu.Lock()
	booking := w.booking
	startDate, endDate := w.startDate, w.endDate
	w.mu.Unlock()

	if booking == nil {
		created, err := w.bookings.CreateBooking(ctx, profile.ID, w.equipment.ID, startDate, endDate)
		if err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		w.mu.Lock()
		if w.closed {
			// The caller is gone but the booking exists server-side;
			// keep the reference so a revived session can resume
			// without duplicating it.
			w.booking = created
			w.mu.Unlock()
			return ErrWorkflowClosed
		}
		w.booking = created
		booking = created
		w.mu.Unlock()
	}

	return w.requestPayment(ctx, booking)
}

func (w *Workflow) requestPayment(ctx context.Context, booking *domain.Booking) error {
	w.mu.Lock()
	if w.paymentDone {
		w.mu.Unlock()
		return w.enterContract()
	}
	w.mu.Unlock()

	description := fmt.Sprintf("Rental of %s from %s to %s", w.equipment.Title, booking.StartDate, booking.EndDate)
	result, err := w.payments.RequestPayment(ctx, booking.ID, booking.TotalPrice, booking.DepositAmount, description)
	if err != nil {
		// Transient failure: the booking survives, the step stays put,
		// the user retries.
		return fmt.Errorf("request payment: %w", err)
	}
	if !result.Success {
		logger.Warn("Payment declined", "booking_id", booking.ID, "message", result.Message)
		return ErrPaymentDeclined
	}

	if err := w.bookings.MarkPaid(ctx, booking.ID, result.Reference); err != nil {
		return fmt.Errorf("record payment: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorkflowClosed
	}
	w.paymentDone = true
	return w.enterContractLocked()
}

func (w *Workflow) enterContract() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorkflowClosed
	}
	return w.enterContractLocked()
}

func (w *Workflow) enterContractLocked() error {
	w.completed[StepInfo] = true
	w.current = transitions[StepInfo][EventAdvance]
	logger.Info("Booking step completed", "booking_id", w.booking.ID, "next", w.current)
	return nil
}

// GenerateContract triggers document generation for the created booking.
// Generation is explicit, never automatic, and idempotent per booking: each
// successful call replaces the stored URL.
func (w *Workflow) GenerateContract(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWorkflowClosed
	}
	if w.inFlight {
		w.mu.Unlock()
		return ErrRequestInFlight
	}
	if w.booking == nil {
		w.mu.Unlock()
		return ErrContractNotReady
	}
	w.inFlight = true
	bookingID := w.booking.ID
	w.mu.Unlock()

	url, err := w.contracts.Generate(ctx, bookingID)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false
	if err != nil {
		return fmt.Errorf("generate contract: %w", err)
	}
	if w.closed {
		return ErrWorkflowClosed
	}
	w.contractURL = url
	// Regeneration invalidates any prior signature state held locally.
	w.renterSigned = false
	return nil
}

// NotifySigned records that a party signed the contract; the pipeline calls
// this after a successful signature submission.
func (w *Workflow) NotifySigned(party domain.SignatoryParty) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if party == domain.SignatoryRenter {
		w.renterSigned = true
	}
}

func (w *Workflow) leaveContract() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.contractURL == "" {
		return ErrContractNotReady
	}
	if w.opts.RequireRenterSignature && !w.renterSigned {
		return ErrSignatureRequired
	}
	w.completed[StepContract] = true
	w.current = transitions[StepContract][EventAdvance]
	w.completed[StepConfirmation] = true
	logger.Info("Workflow confirmed", "booking_id", w.booking.ID)
	return nil
}

// GoBack re-enters the previous step without re-running its entry side
// effects: booking creation and payment are never re-triggered by
// navigation.
func (w *Workflow) GoBack() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorkflowClosed
	}
	next, ok := transitions[w.current][EventBack]
	if !ok {
		return ErrUndefinedTransition
	}
	w.current = next
	return nil
}

// RetryPayment re-runs the payment request for the already-created booking.
// The booking id is stable across retries.
func (w *Workflow) RetryPayment(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWorkflowClosed
	}
	if w.inFlight {
		w.mu.Unlock()
		return ErrRequestInFlight
	}
	if w.current != StepInfo || w.booking == nil {
		w.mu.Unlock()
		return ErrUndefinedTransition
	}
	w.inFlight = true
	booking := w.booking
	w.mu.Unlock()

	err := w.requestPayment(ctx, booking)

	w.mu.Lock()
	w.inFlight = false
	w.mu.Unlock()
	return err
}

// CompleteProfile is the info step's sub-flow for collecting missing
// fields: persist, then re-check the booking-complete predicate.
func (w *Workflow) CompleteProfile(ctx context.Context, profile *domain.Profile) error {
	if err := w.identity.UpdateProfile(ctx, profile); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	updated, err := w.identity.CurrentProfile(ctx)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	if updated == nil || !updated.IsBookingComplete() {
		return ErrProfileIncomplete
	}
	return nil
}
