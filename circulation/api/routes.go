package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/addbook"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/bookavailability"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/cancelissuerequest"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/cancelreservation"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/deactivatebook"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/decideissuerequest"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/enqueuereservation"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/expirestalereservations"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/fulfillissuerequest"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/markoverdueloans"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/memberloansummary"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/returnloan"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/submitissuerequest"
)

// AddBookRequest is the body of POST /books.
type AddBookRequest struct {
	BookID    string `json:"book_id"`
	LibraryID string `json:"library_id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	Quantity  int    `json:"quantity"`
}

// SubmitIssueRequestRequest is the body of POST /requests.
type SubmitIssueRequestRequest struct {
	RequestID string `json:"request_id"`
	BookID    string `json:"book_id"`
	MemberID  string `json:"member_id"`
}

// DecideIssueRequestRequest is the body of POST /requests/:requestID/decision.
type DecideIssueRequestRequest struct {
	Decision string `json:"decision"` // approve or reject
	Reason   string `json:"reason"`
}

// FulfillIssueRequestRequest is the body of POST /requests/:requestID/fulfill.
type FulfillIssueRequestRequest struct {
	LoanID string `json:"loan_id"`
}

// EnqueueReservationRequest is the body of POST /reservations.
type EnqueueReservationRequest struct {
	ReservationID string `json:"reservation_id"`
	BookID        string `json:"book_id"`
	MemberID      string `json:"member_id"`
}

// SweepRequest is the body of the sweep endpoints. An empty library sweeps all libraries.
type SweepRequest struct {
	LibraryID string `json:"library_id"`
}

func (s *Server) addBook(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return err
	}

	var body AddBookRequest
	if err = parseBody(c, &body); err != nil {
		return err
	}

	bookID := idOrNew(body.BookID)
	command := addbook.BuildCommand(caller, bookID, body.LibraryID, body.Title, body.Author, body.ISBN, body.Quantity, s.clock())
	result, err := s.handlers.AddBook.Handle(c.UserContext(), command)

	return s.respond(c, fiber.StatusCreated, "book added to circulation", bookID, result, err)
}

func (s *Server) deactivateBook(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return err
	}

	command := deactivatebook.BuildCommand(caller, c.Params("bookID"), s.clock())
	result, err := s.handlers.DeactivateBook.Handle(c.UserContext(), command)

	return s.respond(c, fiber.StatusOK, "book deactivated", "", result, err)
}

func (s *Server) bookAvailability(c *fiber.Ctx) error {
	if _, err := actor(c); err != nil {
		return err
	}

	availability, err := s.handlers.BookAvailability.Handle(c.UserContext(), bookavailability.BuildQuery(c.Params("bookID")))
	if err != nil {
		return failure(c, err, nil)
	}

	return success(c, fiber.StatusOK, "book availability", availability)
}

func (s *Server) submitIssueRequest(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return err
	}

	var body SubmitIssueRequestRequest
	if err = parseBody(c, &body); err != nil {
		return err
	}

	if body.MemberID == "" && caller.Role == core.RoleMember {
		body.MemberID = caller.ID
	}

	requestID := idOrNew(body.RequestID)
	command := submitissuerequest.BuildCommand(caller, requestID, body.BookID, body.MemberID, s.clock())
	result, err := s.handlers.SubmitIssueRequest.Handle(c.UserContext(), command)

	return s.respond(c, fiber.StatusCreated, "issue request submitted", requestID, result, err)
}

func (s *Server) decideIssueRequest(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return err
	}

	var body DecideIssueRequestRequest
	if err = parseBody(c, &body); err != nil {
		return err
	}

	command := decideissuerequest.BuildCommand(
		caller,
		c.Params("requestID"),
		decideissuerequest.Decision(body.Decision),
		body.Reason,
		s.clock(),
	)
	result, err := s.handlers.DecideIssueRequest.Handle(c.UserContext(), command)

	return s.respond(c, fiber.StatusOK, fmt.Sprintf("issue request decided: %s", body.Decision), "", result, err)
}

func (s *Server) fulfillIssueRequest(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return err
	}

	var body FulfillIssueRequestRequest
	if err = parseBody(c, &body); err != nil {
		return err
	}

	loanID := idOrNew(body.LoanID)
	command := fulfillissuerequest.BuildCommand(caller, c.Params("requestID"), loanID, s.clock())
	result, err := s.handlers.FulfillIssueRequest.Handle(c.UserContext(), command)

	return s.respond(c, fiber.StatusCreated, "loan started", loanID, result, err)
}

func (s *Server) cancelIssueRequest(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return err
	}

	command := cancelissuerequest.BuildCommand(caller, c.Params("requestID"), s.clock())
	result, err := s.handlers.CancelIssueRequest.Handle(c.UserContext(), command)

	return s.respond(c, fiber.StatusOK, "issue request cancelled", "", result, err)
}

func (s *Server) returnLoan(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return err
	}

	command := returnloan.BuildCommand(caller, c.Params("loanID"), s.clock())
	result, err := s.handlers.ReturnLoan.Handle(c.UserContext(), command)

	return s.respond(c, fiber.StatusOK, "loan returned", "", result, err)
}

func (s *Server) enqueueReservation(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return err
	}

	var body EnqueueReservationRequest
	if err = parseBody(c, &body); err != nil {
		return err
	}

	if body.MemberID == "" && caller.Role == core.RoleMember {
		body.MemberID = caller.ID
	}

	reservationID := idOrNew(body.ReservationID)
	command := enqueuereservation.BuildCommand(caller, reservationID, body.BookID, body.MemberID, s.clock())
	result, err := s.handlers.EnqueueReservation.Handle(c.UserContext(), command)

	return s.respond(c, fiber.StatusCreated, "reservation enqueued", reservationID, result, err)
}

func (s *Server) cancelReservation(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return err
	}

	command := cancelreservation.BuildCommand(caller, c.Params("reservationID"), s.clock())
	result, err := s.handlers.CancelReservation.Handle(c.UserContext(), command)

	return s.respond(c, fiber.StatusOK, "reservation cancelled", "", result, err)
}

func (s *Server) expireStaleReservations(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return err
	}

	var body SweepRequest
	if err = parseBody(c, &body); err != nil {
		return err
	}

	command := expirestalereservations.BuildCommand(caller, body.LibraryID, s.clock())
	result, err := s.handlers.ExpireStaleReservations.Handle(c.UserContext(), command)

	return s.respond(c, fiber.StatusOK, "stale reservations expired", "", result, err)
}

func (s *Server) markOverdueLoans(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return err
	}

	var body SweepRequest
	if err = parseBody(c, &body); err != nil {
		return err
	}

	command := markoverdueloans.BuildCommand(caller, body.LibraryID, s.clock())
	result, err := s.handlers.MarkOverdueLoans.Handle(c.UserContext(), command)

	return s.respond(c, fiber.StatusOK, "overdue loans marked", "", result, err)
}

func (s *Server) memberLoanSummary(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return err
	}

	asOf := s.clock()
	if raw := c.Query("as_of"); raw != "" {
		if asOf, err = time.Parse(time.RFC3339, raw); err != nil {
			return failure(c, fmt.Errorf("%w: as_of must be RFC 3339: %v", core.ErrInvalidInput, err), nil)
		}
	}

	query := memberloansummary.BuildQuery(caller, c.Params("memberID"), asOf)

	summary, err := s.handlers.MemberLoanSummary.Handle(c.UserContext(), query)
	if err != nil {
		return failure(c, err, nil)
	}

	return success(c, fiber.StatusOK, "member loan summary", summary)
}
