// Package lexdoc acquires legal documents from a rate-limited publication
// source over date ranges. It lists each day's journal, fetches and parses
// every act, validates the result, and stores each document exactly once in a
// hierarchical file store that survives restarts.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, prometheus/).
package lexdoc
