// Package availability classifies requested titles as available now, soon,
// not yet, or undetermined from their theatrical and digital release dates.
package availability
