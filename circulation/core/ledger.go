package core

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// IssueRequest is the projected state of one issue request.
type IssueRequest struct {
	RequestID   RequestIDString
	BookID      BookIDString
	LibraryID   LibraryIDString
	MemberID    MemberIDString
	ApproverID  StaffIDString
	SubmittedAt time.Time
	Status      RequestStatus
	LoanID      LoanIDString
}

// Loan is the projected state of one loan. A loan is active until it is returned.
type Loan struct {
	LoanID        LoanIDString
	RequestID     RequestIDString
	BookID        BookIDString
	LibraryID     LibraryIDString
	MemberID      MemberIDString
	ReservationID ReservationIDString
	IssuedAt      time.Time
	DueAt         time.Time
	MarkedOverdue bool
	Returned      bool
	ReturnedAt    time.Time
}

// Reservation is the projected state of one reservation.
type Reservation struct {
	ReservationID ReservationIDString
	BookID        BookIDString
	LibraryID     LibraryIDString
	MemberID      MemberIDString
	CreatedAt     time.Time
	HoldExpiresAt time.Time
	Status        ReservationStatus
}

// Availability is the read model of the inventory ledger for one book.
type Availability struct {
	BookID          BookIDString
	LibraryID       LibraryIDString
	Quantity        int
	AvailableCopies int
	ActiveLoans     int
	HeldCopies      int
	QueueLength     int
	State           BookState
	Deactivated     bool
}

// Claim tells how a copy is handed out: from the member's own hold or from the free copies.
type Claim struct {
	ReservationID ReservationIDString
}

// FromHold is true if the claimed copy was held for the member.
func (c Claim) FromHold() bool {
	return c.ReservationID != ""
}

// BookInventory is the inventory ledger of one book, projected from its events.
//
// The copy counts always satisfy available + activeLoans + held == quantity.
// A copy is held while a reservation is ReadyForPickup.
// An Approved request without a hold of its member is promised one of the available copies.
type BookInventory struct {
	BookID      BookIDString
	LibraryID   LibraryIDString
	Title       string
	Author      string
	ISBN        ISBNString
	Quantity    int
	Known       bool
	Deactivated bool

	requests     map[RequestIDString]*IssueRequest
	requestOrder []RequestIDString

	loans     map[LoanIDString]*Loan
	loanOrder []LoanIDString

	reservations     map[ReservationIDString]*Reservation
	reservationOrder []ReservationIDString

	reusedIDs []string
}

// NewBookInventory returns the empty ledger of a book nobody has added yet.
func NewBookInventory(bookID BookIDString) *BookInventory {
	return &BookInventory{
		BookID:       bookID,
		requests:     make(map[RequestIDString]*IssueRequest),
		loans:        make(map[LoanIDString]*Loan),
		reservations: make(map[ReservationIDString]*Reservation),
	}
}

// ProjectBook replays the history and returns the ledger of the book. Events of other books are ignored.
func ProjectBook(history DomainEvents, bookID BookIDString) *BookInventory {
	b := NewBookInventory(bookID)

	for _, event := range history {
		b.Apply(event)
	}

	return b
}

// Apply evolves the ledger by one event.
func (b *BookInventory) Apply(event DomainEvent) { //nolint:gocognit,funlen // one case per event type
	if event.References().BookID != b.BookID {
		return
	}

	switch e := event.(type) {
	case BookAddedToCirculation:
		b.Known = true
		b.LibraryID = e.LibraryID
		b.Title = e.Title
		b.Author = e.Author
		b.ISBN = e.ISBN
		b.Quantity = e.Quantity

	case BookDeactivated:
		b.Deactivated = true

	case IssueRequestSubmitted:
		if _, ok := b.requests[e.RequestID]; ok {
			b.reusedIDs = append(b.reusedIDs, "request "+e.RequestID)
			return
		}

		b.requests[e.RequestID] = &IssueRequest{
			RequestID:   e.RequestID,
			BookID:      e.BookID,
			LibraryID:   e.LibraryID,
			MemberID:    e.MemberID,
			SubmittedAt: e.OccurredAt,
			Status:      RequestPending,
		}
		b.requestOrder = append(b.requestOrder, e.RequestID)

	case IssueRequestApproved:
		if r, ok := b.requests[e.RequestID]; ok {
			r.Status = RequestApproved
			r.ApproverID = e.ApproverID
		}

	case IssueRequestRejected:
		if r, ok := b.requests[e.RequestID]; ok {
			r.Status = RequestRejected
			r.ApproverID = e.ApproverID
		}

	case IssueRequestCancelled:
		if r, ok := b.requests[e.RequestID]; ok {
			r.Status = RequestCancelled
		}

	case LoanStarted:
		if _, ok := b.loans[e.LoanID]; ok {
			b.reusedIDs = append(b.reusedIDs, "loan "+e.LoanID)
		} else {
			b.loans[e.LoanID] = &Loan{
				LoanID:        e.LoanID,
				RequestID:     e.RequestID,
				BookID:        e.BookID,
				LibraryID:     e.LibraryID,
				MemberID:      e.MemberID,
				ReservationID: e.ReservationID,
				IssuedAt:      e.IssuedAt,
				DueAt:         e.DueAt,
			}
			b.loanOrder = append(b.loanOrder, e.LoanID)
		}

		if r, ok := b.requests[e.RequestID]; ok {
			r.Status = RequestFulfilled
			r.LoanID = e.LoanID
		}

		if r, ok := b.reservations[e.ReservationID]; ok {
			r.Status = ReservationStatusFulfilled
		}

	case LoanReturned:
		if l, ok := b.loans[e.LoanID]; ok {
			l.Returned = true
			l.ReturnedAt = e.ReturnedAt
		}

	case LoanMarkedOverdue:
		if l, ok := b.loans[e.LoanID]; ok {
			l.MarkedOverdue = true
		}

	case ReservationEnqueued:
		if _, ok := b.reservations[e.ReservationID]; ok {
			b.reusedIDs = append(b.reusedIDs, "reservation "+e.ReservationID)
			return
		}

		b.reservations[e.ReservationID] = &Reservation{
			ReservationID: e.ReservationID,
			BookID:        e.BookID,
			LibraryID:     e.LibraryID,
			MemberID:      e.MemberID,
			CreatedAt:     e.OccurredAt,
			Status:        ReservationStatusActive,
		}
		b.reservationOrder = append(b.reservationOrder, e.ReservationID)

	case ReservationActivated:
		if r, ok := b.reservations[e.ReservationID]; ok {
			r.Status = ReservationStatusReadyForPickup
			r.HoldExpiresAt = e.HoldExpiresAt
		}

	case ReservationPickedUp:
		if r, ok := b.reservations[e.ReservationID]; ok {
			r.Status = ReservationStatusFulfilled
		}

	case ReservationExpired:
		if r, ok := b.reservations[e.ReservationID]; ok {
			r.Status = ReservationStatusExpired
		}

	case ReservationCancelled:
		if r, ok := b.reservations[e.ReservationID]; ok {
			r.Status = ReservationStatusCancelled
		}
	}
}

// Exists is true once the book was added to circulation.
func (b *BookInventory) Exists() bool {
	return b.Known
}

// Request returns the issue request with the given id.
func (b *BookInventory) Request(requestID RequestIDString) (IssueRequest, bool) {
	if r, ok := b.requests[requestID]; ok {
		return *r, true
	}

	return IssueRequest{}, false
}

// Loan returns the loan with the given id.
func (b *BookInventory) Loan(loanID LoanIDString) (Loan, bool) {
	if l, ok := b.loans[loanID]; ok {
		return *l, true
	}

	return Loan{}, false
}

// Reservation returns the reservation with the given id.
func (b *BookInventory) Reservation(reservationID ReservationIDString) (Reservation, bool) {
	if r, ok := b.reservations[reservationID]; ok {
		return *r, true
	}

	return Reservation{}, false
}

// Requests returns all issue requests in submission order.
func (b *BookInventory) Requests() []IssueRequest {
	requests := make([]IssueRequest, 0, len(b.requestOrder))
	for _, id := range b.requestOrder {
		requests = append(requests, *b.requests[id])
	}

	return requests
}

// Reservations returns all reservations in the order they were enqueued.
func (b *BookInventory) Reservations() []Reservation {
	reservations := make([]Reservation, 0, len(b.reservationOrder))
	for _, id := range b.reservationOrder {
		reservations = append(reservations, *b.reservations[id])
	}

	return reservations
}

// ActiveLoans returns the loans which were not returned yet, in issue order.
func (b *BookInventory) ActiveLoans() []Loan {
	var loans []Loan

	for _, id := range b.loanOrder {
		if l := b.loans[id]; !l.Returned {
			loans = append(loans, *l)
		}
	}

	return loans
}

// OpenRequestOf returns the Pending or Approved request of the member.
func (b *BookInventory) OpenRequestOf(memberID MemberIDString) (IssueRequest, bool) {
	for _, r := range b.Requests() {
		if r.MemberID == memberID && r.Status.IsOpen() {
			return r, true
		}
	}

	return IssueRequest{}, false
}

// ActiveLoanOf returns the active loan of the member.
func (b *BookInventory) ActiveLoanOf(memberID MemberIDString) (Loan, bool) {
	for _, l := range b.ActiveLoans() {
		if l.MemberID == memberID {
			return l, true
		}
	}

	return Loan{}, false
}

// OpenReservationOf returns the Active or ReadyForPickup reservation of the member.
func (b *BookInventory) OpenReservationOf(memberID MemberIDString) (Reservation, bool) {
	for _, r := range b.Reservations() {
		if r.MemberID == memberID && r.Status.IsOpen() {
			return r, true
		}
	}

	return Reservation{}, false
}

// HoldOf returns the reservation of the member for which a copy is held.
func (b *BookInventory) HoldOf(memberID MemberIDString) (Reservation, bool) {
	r, ok := b.OpenReservationOf(memberID)
	if !ok || r.Status != ReservationStatusReadyForPickup {
		return Reservation{}, false
	}

	return r, true
}

// HeldCopies counts the copies held for reservations ready for pickup.
func (b *BookInventory) HeldCopies() int {
	held := 0

	for _, r := range b.reservations {
		if r.Status == ReservationStatusReadyForPickup {
			held++
		}
	}

	return held
}

// AvailableCopies is quantity minus active loans minus held copies.
func (b *BookInventory) AvailableCopies() int {
	return b.Quantity - len(b.ActiveLoans()) - b.HeldCopies()
}

// PromisedCopies counts the Approved requests whose member has no hold. Each of them waits for one available copy.
func (b *BookInventory) PromisedCopies() int {
	promised := 0

	for _, r := range b.requests {
		if r.Status != RequestApproved {
			continue
		}

		if _, held := b.HoldOf(r.MemberID); !held {
			promised++
		}
	}

	return promised
}

// FreeCopies are the available copies which are not promised to an Approved request.
func (b *BookInventory) FreeCopies() int {
	return max(0, b.AvailableCopies()-b.PromisedCopies())
}

// State derives the book state from the copy counts.
func (b *BookInventory) State() BookState {
	switch {
	case b.AvailableCopies() > 0:
		return BookAvailable
	case b.HeldCopies() > 0:
		return BookReserved
	default:
		return BookCheckedOut
	}
}

// Queue returns the waiting reservations in FIFO order: by creation time, ties by lowest reservation id.
func (b *BookInventory) Queue() []Reservation {
	var queue []Reservation

	for _, r := range b.reservations {
		if r.Status == ReservationStatusActive {
			queue = append(queue, *r)
		}
	}

	slices.SortFunc(queue, func(x, y Reservation) int {
		if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
			return c
		}

		return strings.Compare(x.ReservationID, y.ReservationID)
	})

	return queue
}

// Availability returns the read model of the ledger.
func (b *BookInventory) Availability() Availability {
	return Availability{
		BookID:          b.BookID,
		LibraryID:       b.LibraryID,
		Quantity:        b.Quantity,
		AvailableCopies: b.AvailableCopies(),
		ActiveLoans:     len(b.ActiveLoans()),
		HeldCopies:      b.HeldCopies(),
		QueueLength:     len(b.Queue()),
		State:           b.State(),
		Deactivated:     b.Deactivated,
	}
}

// PromiseCopy picks the copy an approval promises to the member.
// The member's own hold is used first, then a free copy, otherwise ErrOutOfStock.
func (b *BookInventory) PromiseCopy(memberID MemberIDString) (Claim, error) {
	if hold, ok := b.HoldOf(memberID); ok {
		return Claim{ReservationID: hold.ReservationID}, nil
	}

	if b.FreeCopies() > 0 {
		return Claim{}, nil
	}

	return Claim{}, ErrOutOfStock
}

// ClaimCopy picks the copy for the loan of an Approved request of the member.
// The member's own hold is used first, then the available copy promised to the request, otherwise ErrOutOfStock.
func (b *BookInventory) ClaimCopy(memberID MemberIDString) (Claim, error) {
	if hold, ok := b.HoldOf(memberID); ok {
		return Claim{ReservationID: hold.ReservationID}, nil
	}

	if b.AvailableCopies() > 0 {
		return Claim{}, nil
	}

	return Claim{}, ErrOutOfStock
}

// ReleaseCopy hands a free copy to the head of the queue.
// It returns the ReservationActivated event for the head, or false if the copy simply stays available.
// Copies promised to Approved requests are not handed out.
// Callers apply the event which freed the copy (return, cancellation, expiry) before calling it.
func (b *BookInventory) ReleaseCopy(now time.Time, policy LibraryPolicy) (ReservationActivated, bool) {
	if b.FreeCopies() <= 0 {
		return ReservationActivated{}, false
	}

	queue := b.Queue()
	if len(queue) == 0 {
		return ReservationActivated{}, false
	}

	head := queue[0]

	return BuildReservationActivated(
		head.ReservationID,
		head.BookID,
		head.LibraryID,
		head.MemberID,
		now.AddDate(0, 0, policy.HoldWindowDays),
		now,
	), true
}

// ExpiredHolds returns the holds whose pickup window has passed, oldest first.
func (b *BookInventory) ExpiredHolds(now time.Time) []Reservation {
	var expired []Reservation

	for _, r := range b.reservations {
		if r.Status == ReservationStatusReadyForPickup && now.After(r.HoldExpiresAt) {
			expired = append(expired, *r)
		}
	}

	slices.SortFunc(expired, func(x, y Reservation) int {
		if c := x.HoldExpiresAt.Compare(y.HoldExpiresAt); c != 0 {
			return c
		}

		return strings.Compare(x.ReservationID, y.ReservationID)
	})

	return expired
}

// OverdueLoans returns the active loans past their due date which were not marked overdue yet.
func (b *BookInventory) OverdueLoans(now time.Time) []Loan {
	var overdue []Loan

	for _, l := range b.ActiveLoans() {
		if !l.MarkedOverdue && IsOverdue(l.DueAt, now) {
			overdue = append(overdue, l)
		}
	}

	slices.SortStableFunc(overdue, func(x, y Loan) int {
		return x.DueAt.Compare(y.DueAt)
	})

	return overdue
}

// HasOpenReferences is true while loans, holds, open requests or queued reservations reference the book.
func (b *BookInventory) HasOpenReferences() bool {
	if len(b.ActiveLoans()) > 0 {
		return true
	}

	for _, r := range b.requests {
		if r.Status.IsOpen() {
			return true
		}
	}

	for _, r := range b.reservations {
		if r.Status.IsOpen() {
			return true
		}
	}

	return false
}

// CheckInvariants verifies the ledger laws. Every violation is wrapped with ErrInvariantViolation.
func (b *BookInventory) CheckInvariants() error {
	var errs []error

	loans := len(b.ActiveLoans())
	held := b.HeldCopies()

	if b.Quantity < 0 {
		errs = append(errs, fmt.Errorf("%w: book %s has negative quantity %d", ErrInvariantViolation, b.BookID, b.Quantity))
	}

	if loans+held > b.Quantity {
		errs = append(errs, fmt.Errorf(
			"%w: book %s has %d active loans and %d held copies but only %d copies",
			ErrInvariantViolation, b.BookID, loans, held, b.Quantity,
		))
	}

	if promised := b.PromisedCopies(); promised > max(0, b.AvailableCopies()) {
		errs = append(errs, fmt.Errorf("%w: book %s has %d approved requests waiting but only %d available copies",
			ErrInvariantViolation, b.BookID, promised, b.AvailableCopies()))
	}

	for _, id := range b.reusedIDs {
		errs = append(errs, fmt.Errorf("%w: %s id is used twice in book %s", ErrInvariantViolation, id, b.BookID))
	}

	for _, r := range b.Requests() {
		if r.Status != RequestFulfilled {
			continue
		}

		if l, ok := b.loans[r.LoanID]; !ok || l.RequestID != r.RequestID {
			errs = append(errs, fmt.Errorf("%w: fulfilled request %s of book %s has no loan %s",
				ErrInvariantViolation, r.RequestID, b.BookID, r.LoanID))
		}
	}

	openRequests := make(map[MemberIDString]int)
	for _, r := range b.requests {
		if r.Status.IsOpen() {
			openRequests[r.MemberID]++
		}
	}

	openReservations := make(map[MemberIDString]int)
	for _, r := range b.reservations {
		if r.Status.IsOpen() {
			openReservations[r.MemberID]++
		}
	}

	activeLoans := make(map[MemberIDString]int)
	for _, l := range b.ActiveLoans() {
		activeLoans[l.MemberID]++
	}

	for _, memberID := range slices.Sorted(maps.Keys(openRequests)) {
		if openRequests[memberID] > 1 {
			errs = append(errs, fmt.Errorf("%w: member %s has %d open requests for book %s",
				ErrInvariantViolation, memberID, openRequests[memberID], b.BookID))
		}
	}

	for _, memberID := range slices.Sorted(maps.Keys(openReservations)) {
		if openReservations[memberID] > 1 {
			errs = append(errs, fmt.Errorf("%w: member %s has %d open reservations for book %s",
				ErrInvariantViolation, memberID, openReservations[memberID], b.BookID))
		}
	}

	for _, memberID := range slices.Sorted(maps.Keys(activeLoans)) {
		if activeLoans[memberID] > 1 {
			errs = append(errs, fmt.Errorf("%w: member %s has %d active loans of book %s",
				ErrInvariantViolation, memberID, activeLoans[memberID], b.BookID))
		}
	}

	return errors.Join(errs...)
}
