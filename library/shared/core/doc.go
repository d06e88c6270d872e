// Package core contains the pure borrowing rules of the library:
// the fine policy, the failure reasons a transition can end with,
// the roles of the people acting on the system and the decision result
// that every Decide function returns.
//
// BorrowingView adds what is derived on read: the Overdue label and the fine
// accrued so far. Neither is ever stored.
//
// Nothing in here performs I/O. Command handlers load state, hand it to a
// Decide function and persist what the decision says.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
