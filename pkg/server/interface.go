/*
Package server implements msgpack IPC for screen text completion.

Clients send a text snapshot and a prefix over stdin and receive the
candidate words found in that text on stdout. Every frame is a single
msgpack map; frames are read back to back with no extra delimiters.

# IPC

Completion requests carry the text to scan and the prefix:

	{"id": "req_001", "x": "hello world help", "p": "he", "l": 24}

The server responds with candidates in byte order of their raw form, the
longest prefix they share and the time spent in microseconds:

	{"id": "req_001", "s": [{"w": "hello", "r": 1}, {"w": "help", "r": 2}], "c": 2, "cp": "hel", "t": 145}

Requests with an action field are control messages:

	{"id": "ctl_001", "action": "health"}
	{"id": "ctl_002", "action": "config"}
	{"id": "ctl_003", "action": "set_limits", "max_limit": 128}

Failures come back as CompletionError with an HTTP-like code.
*/
package server

// CompletionRequest - minimal completion request
type CompletionRequest struct {
	ID     string `msgpack:"id"`
	Text   string `msgpack:"x"`
	Prefix string `msgpack:"p"`
	Limit  int    `msgpack:"l,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID           string                 `msgpack:"id"`
	Suggestions  []CompletionSuggestion `msgpack:"s"`
	Count        int                    `msgpack:"c"`
	CommonPrefix string                 `msgpack:"cp,omitempty"`
	TimeTaken    int64                  `msgpack:"t"`
}

// ControlRequest carries an action instead of a prefix
type ControlRequest struct {
	ID           string `msgpack:"id"`
	Action       string `msgpack:"action"` // "health", "config", "set_limits"
	MaxLimit     *int   `msgpack:"max_limit,omitempty"`
	DefaultLimit *int   `msgpack:"default_limit,omitempty"`
	MaxPrefix    *int   `msgpack:"max_prefix,omitempty"`
}

// StatusResponse answers health and set_limits
type StatusResponse struct {
	ID       string `msgpack:"id"`
	Status   string `msgpack:"status"`
	Error    string `msgpack:"error,omitempty"`
	Requests int    `msgpack:"requests"`
}

// ConfigResponse reports the limits currently applied
type ConfigResponse struct {
	ID           string `msgpack:"id"`
	Status       string `msgpack:"status"`
	MaxLimit     int    `msgpack:"max_limit"`
	DefaultLimit int    `msgpack:"default_limit"`
	MaxPrefix    int    `msgpack:"max_prefix"`
	MaxTextBytes int    `msgpack:"max_text_bytes"`
	URLTokens    bool   `msgpack:"url_tokens"`
}

// CompletionError holds basic error information for completion requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// envelope is decoded first to route a frame
type envelope struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action"`
}
