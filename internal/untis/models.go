package untis

import (
	"encoding/json"
	"fmt"
)

// RPCError is an error object returned by the JSON-RPC endpoint
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("webuntis error %d: %s", e.Code, e.Message)
}

type rpcRequest struct {
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	JSONRPC string      `json:"jsonrpc"`
}

type rpcResponse struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error,omitempty"`
}

type authParams struct {
	User     string `json:"user"`
	Password string `json:"password"`
	Client   string `json:"client"`
}

type authResult struct {
	SessionID  string `json:"sessionId"`
	PersonType int    `json:"personType"`
	PersonID   int    `json:"personId"`
}

// Subject is an entry of getSubjects
type Subject struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	LongName string `json:"longName"`
}

// Klasse is an entry of getKlassen (a class group)
type Klasse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	LongName string `json:"longName"`
}

// elementType 3 selects a subject timetable
const elementTypeSubject = 3

type timetableParams struct {
	ID        int `json:"id"`
	Type      int `json:"type"`
	StartDate int `json:"startDate"`
	EndDate   int `json:"endDate"`
}

type elementRef struct {
	ID int `json:"id"`
}

// Period is an entry of getTimetable. Date is yyyymmdd, times are hhmm.
type Period struct {
	ID        int          `json:"id"`
	Date      int          `json:"date"`
	StartTime int          `json:"startTime"`
	EndTime   int          `json:"endTime"`
	Klassen   []elementRef `json:"kl"`
	Code      string       `json:"code,omitempty"`
}
