package jobs

import "testing"

func TestStatusValidate(t *testing.T) {
	tests := []struct {
		name    string
		status  Status
		wantErr bool
	}{
		{"valid queued", StatusQueued, false},
		{"valid running", StatusRunning, false},
		{"valid succeeded", StatusSucceeded, false},
		{"valid failed", StatusFailed, false},
		{"valid timeout", StatusTimeout, false},
		{"valid canceled", StatusCanceled, false},
		{"invalid status", Status("bogus"), true},
		{"empty status", Status(""), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.status.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Status.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStatusIsTerminalAndIsActive(t *testing.T) {
	tests := []struct {
		status       Status
		wantTerminal bool
		wantActive   bool
	}{
		{StatusQueued, false, true},
		{StatusRunning, false, true},
		{StatusSucceeded, true, false},
		{StatusFailed, true, false},
		{StatusTimeout, true, false},
		{StatusCanceled, true, false},
	}
	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.wantTerminal {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.status, got, tt.wantTerminal)
		}
		if got := tt.status.IsActive(); got != tt.wantActive {
			t.Errorf("%s.IsActive() = %v, want %v", tt.status, got, tt.wantActive)
		}
	}
}

func TestStatusNextValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"queued to running", StatusQueued, StatusRunning, true},
		{"queued to canceled", StatusQueued, StatusCanceled, true},
		{"queued to succeeded is illegal", StatusQueued, StatusSucceeded, false},
		{"running to succeeded", StatusRunning, StatusSucceeded, true},
		{"running to failed", StatusRunning, StatusFailed, true},
		{"running to timeout", StatusRunning, StatusTimeout, true},
		{"running to canceled", StatusRunning, StatusCanceled, true},
		{"running backwards to queued is illegal", StatusRunning, StatusQueued, false},
		{"terminal state never transitions", StatusSucceeded, StatusRunning, false},
		{"canceled is sticky", StatusCanceled, StatusFailed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.nextValid(tt.to); got != tt.want {
				t.Errorf("%s.nextValid(%s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestStatusJSONRoundTrip(t *testing.T) {
	data, err := StatusRunning.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}
	var s Status
	if err := s.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON() error: %v", err)
	}
	if s != StatusRunning {
		t.Errorf("round-tripped status = %s, want %s", s, StatusRunning)
	}
}

func TestStatusUnmarshalJSONRejectsUnknownValue(t *testing.T) {
	var s Status
	err := s.UnmarshalJSON([]byte(`"not-a-status"`))
	if err == nil {
		t.Fatal("UnmarshalJSON() expected an error for an unknown status value")
	}
}
