package protocol

import "testing"

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name       string
		input      []byte
		wantOK     bool
		wantMethod Method
		wantRes    string
	}{
		{
			name:       "Full request line",
			input:      []byte("GET /index.html HTTP/1.1\r\nHost: localhost\r\n\r\n"),
			wantOK:     true,
			wantMethod: Get,
			wantRes:    "/index.html",
		},
		{
			name:       "Two tokens only",
			input:      []byte("HEAD /"),
			wantOK:     true,
			wantMethod: Head,
			wantRes:    "/",
		},
		{
			name:       "Query string kept verbatim",
			input:      []byte("GET /a%20b?x=1 HTTP/1.1"),
			wantOK:     true,
			wantMethod: Get,
			wantRes:    "/a%20b?x=1",
		},
		{
			name:       "Trailing line break stays in resource",
			input:      []byte("GET /\r\n"),
			wantOK:     true,
			wantMethod: Get,
			wantRes:    "/\r\n",
		},
		{
			name:       "Double space gives empty resource",
			input:      []byte("DELETE  /x"),
			wantOK:     true,
			wantMethod: Delete,
			wantRes:    "",
		},
		{
			name:       "Non-ASCII resource",
			input:      []byte("GET /café.txt HTTP/1.1"),
			wantOK:     true,
			wantMethod: Get,
			wantRes:    "/café.txt",
		},
		{name: "Empty buffer", input: nil},
		{name: "Single token", input: []byte("GET")},
		{name: "Unknown method", input: []byte("FOO / HTTP/1.1")},
		{name: "Lower case method", input: []byte("get / HTTP/1.1")},
		{name: "Invalid UTF-8 in method", input: []byte("G\xffET / HTTP/1.1")},
		{name: "Invalid UTF-8 in resource", input: []byte("GET /\xff\xfe HTTP/1.1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, ok := ParseRequest(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseRequest(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				if req != nil {
					t.Errorf("ParseRequest(%q) returned %+v with ok = false", tt.input, req)
				}
				return
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method = %v, want %v", req.Method, tt.wantMethod)
			}
			if req.Resource != tt.wantRes {
				t.Errorf("Resource = %q, want %q", req.Resource, tt.wantRes)
			}
		})
	}
}

func TestLossyString(t *testing.T) {
	if got := lossyString([]byte("GE\xffT")); got != "GE�T" {
		t.Errorf("lossyString() = %q, want %q", got, "GE�T")
	}
}
