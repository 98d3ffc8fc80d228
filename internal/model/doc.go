// Package model defines the derived structural description of a type: the
// ComponentModel tree, its attributes and constraints, and DomainModel
// collections identified by a DomainIdentity.
//
// Models are built once through a Builder and are immutable afterwards; they
// can be shared between goroutines without locking.
package model
