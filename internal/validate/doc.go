// Package validate checks bound data against its model.
//
// Validate is structural: required and identity members must be bound and
// the data must have been bound against the model. ValidateData runs every
// constraint of every member and reports all violations at once; absent
// members are checked with a nil value.
package validate
