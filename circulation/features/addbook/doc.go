// Package addbook implements the Add Book to Circulation use case.
//
// Staff put a book with a number of copies into the circulation of a library.
// Adding a book which is already known is a no-op, so the operation can be repeated safely.
package addbook
