package internalprotocol

import (
	"math"

	appprofileserrors "github.com/leodido/appprofiles/errors"
	"github.com/tidwall/gjson"
)

// RequestKind identifies a launcher request.
type RequestKind int

const (
	RequestExit RequestKind = iota
	RequestInterrupt
	RequestSearch
	RequestActivate
	RequestActivateContext
	RequestComplete
	RequestContext
	RequestQuit
)

var requestNames = map[RequestKind]string{
	RequestExit:            "Exit",
	RequestInterrupt:       "Interrupt",
	RequestSearch:          "Search",
	RequestActivate:        "Activate",
	RequestActivateContext: "ActivateContext",
	RequestComplete:        "Complete",
	RequestContext:         "Context",
	RequestQuit:            "Quit",
}

func (k RequestKind) String() string {
	if name, ok := requestNames[k]; ok {
		return name
	}

	return "Unknown"
}

// Request is one decoded launcher request.
type Request struct {
	Kind RequestKind
	// Text is the query of Search requests.
	Text string
	// ID is the result index of Activate, ActivateContext, Complete, Context, and Quit requests.
	ID uint32
	// Context is the context option index of ActivateContext requests.
	Context uint32
}

// ParseRequest decodes one request line.
func ParseRequest(line []byte) (Request, error) {
	if !gjson.ValidBytes(line) {
		return Request{}, appprofileserrors.NewRequestError(string(line), "not valid JSON")
	}
	r := gjson.ParseBytes(line)

	switch {
	case r.Type == gjson.String:
		switch r.Str {
		case "Exit":
			return Request{Kind: RequestExit}, nil
		case "Interrupt":
			return Request{Kind: RequestInterrupt}, nil
		}

		return Request{}, appprofileserrors.NewRequestError(string(line), "unknown request '"+r.Str+"'")
	case r.IsObject():
		return parseObject(line, r)
	}

	return Request{}, appprofileserrors.NewRequestError(string(line), "expected a string or an object")
}

func parseObject(line []byte, r gjson.Result) (Request, error) {
	obj := r.Map()
	if len(obj) != 1 {
		return Request{}, appprofileserrors.NewRequestError(string(line), "expected exactly one key")
	}

	for key, value := range obj {
		switch key {
		case "Search":
			if value.Type != gjson.String {
				return Request{}, appprofileserrors.NewRequestError(string(line), "search text must be a string")
			}

			return Request{Kind: RequestSearch, Text: value.Str}, nil
		case "ActivateContext":
			id, ok := index(value.Get("id"))
			if !ok {
				return Request{}, appprofileserrors.NewRequestError(string(line), "missing or invalid id")
			}
			option, ok := index(value.Get("context"))
			if !ok {
				return Request{}, appprofileserrors.NewRequestError(string(line), "missing or invalid context")
			}

			return Request{Kind: RequestActivateContext, ID: id, Context: option}, nil
		}

		kind, ok := indexed[key]
		if !ok {
			return Request{}, appprofileserrors.NewRequestError(string(line), "unknown request '"+key+"'")
		}
		id, ok := index(value)
		if !ok {
			return Request{}, appprofileserrors.NewRequestError(string(line), "missing or invalid id")
		}

		return Request{Kind: kind, ID: id}, nil
	}

	// Unreachable: the map has exactly one key
	return Request{}, appprofileserrors.NewRequestError(string(line), "expected exactly one key")
}

// indexed lists the requests whose payload is a bare result index.
var indexed = map[string]RequestKind{
	"Activate": RequestActivate,
	"Complete": RequestComplete,
	"Context":  RequestContext,
	"Quit":     RequestQuit,
}

func index(v gjson.Result) (uint32, bool) {
	if v.Type != gjson.Number {
		return 0, false
	}
	if v.Num < 0 || v.Num > math.MaxUint32 || v.Num != math.Trunc(v.Num) {
		return 0, false
	}

	return uint32(v.Num), true
}
