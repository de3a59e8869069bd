// Package service contains the application use cases for flashcards. It
// coordinates the domain packages with the repositories defined in
// internal/store.
//
// Review scheduling lives in the card_review subpackage, ranking and plan
// checks in planner, and token handling in auth.
package service
