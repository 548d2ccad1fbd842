// Package memberloansummary implements the Member Loan Summary query.
//
// A member sees the active loans with due dates and accrued fines, the open issue requests
// and the open reservations. Staff may look at any member.
package memberloansummary
