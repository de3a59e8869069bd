// Package domain defines the study entities (flashcards, learning items,
// user profiles and commitments) and their validation rules. Scheduling,
// scoring and feasibility live in the srs, priority and feasibility
// subpackages.
package domain
