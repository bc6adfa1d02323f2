// Package untis talks to the WebUntis JSON-RPC API and exposes a subject's timetable as
// the periods the reconciler works on.
//
// Only the calls needed to read a subject timetable are implemented: authenticate,
// logout, getSubjects, getKlassen and getTimetable.
package untis
