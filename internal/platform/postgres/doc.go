// Package postgres implements the store interfaces for flashcards, learning
// items, profiles and commitments on PostgreSQL. Queries are built with
// squirrel and every store can be rebound to a transaction with WithTx.
package postgres
