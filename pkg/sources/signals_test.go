package sources

import "testing"

func TestSignalNames(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{SourceStarted.Name(), "reactive.source.started"},
		{SourceStopped.Name(), "reactive.source.stopped"},
		{SourceDecodeFailed.Name(), "reactive.source.decode.failed"},
		{SourceError.Name(), "reactive.source.error"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("signal name = %q, want %q", tt.got, tt.want)
		}
	}
}
